// Package api exposes the web preview: an HTML page for composing a
// card, a JSON endpoint rendering the QR, and the generation history.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hostelware/wificard/card"
	"github.com/hostelware/wificard/store"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Gen     *card.Generator
	Store   *store.HistoryStore
	Log     *slog.Logger
	Version string
	Started time.Time
}

// NewRouter returns a fully configured chi router with all routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))

	// Preview web UI
	r.Get("/", s.handleCardPage)
	r.Get("/qr/data", s.handleQRData)

	// Status & history
	r.Get("/status", s.handleStatus)
	r.Get("/history", s.handleGetHistory)
	r.Get("/history/search", s.handleSearchHistory)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
