package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelware/wificard/card"
	"github.com/hostelware/wificard/config"
	"github.com/hostelware/wificard/store"
)

func testServer(t *testing.T) (*Server, *store.HistoryStore) {
	t.Helper()

	h, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		OutputRoot: t.TempDir(),
		Artistic:   config.Artistic{Foreground: "#1B1B1B", Background: "#FFFFFF", Circles: true},
	}

	return &Server{
		Gen:     card.NewGenerator(cfg, h, log),
		Store:   h,
		Log:     log,
		Version: "test",
		Started: time.Now(),
	}, h
}

func doGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCardPage(t *testing.T) {
	s, _ := testServer(t)
	rec := doGet(t, NewRouter(s), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Wi-Fi card preview")
}

func TestQRData(t *testing.T) {
	s, _ := testServer(t)
	rec := doGet(t, NewRouter(s), "/qr/data?ssid=guestnet&password=s3cret123&security=wpa&style=classic")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Payload string `json:"payload"`
		QRPNG   string `json:"qr_png"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "WIFI:T:WPA;S:guestnet;P:s3cret123;;", resp.Payload)

	png, err := base64.StdEncoding.DecodeString(resp.QRPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
}

func TestQRData_Invalid(t *testing.T) {
	s, _ := testServer(t)
	r := NewRouter(s)

	// Missing SSID.
	rec := doGet(t, r, "/qr/data?password=s3cret123&security=wpa")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown security scheme.
	rec = doGet(t, r, "/qr/data?ssid=x&password=s3cret123&security=psk2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown style.
	rec = doGet(t, r, "/qr/data?ssid=x&password=s3cret123&style=baroque")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	s, h := testServer(t)
	r := NewRouter(s)

	rec := doGet(t, r, "/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	require.NoError(t, h.SaveRecord(&store.Record{SSID: "lobby", Security: "WPA", Style: "classic"}))
	require.NoError(t, h.SaveRecord(&store.Record{SSID: "rooftop", Security: "WPA", Style: "artistic"}))

	rec = doGet(t, r, "/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)

	rec = doGet(t, r, "/history/search?q=rooftop")
	require.Equal(t, http.StatusOK, rec.Code)
	recs = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "rooftop", recs[0].SSID)

	rec = doGet(t, r, "/history/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus(t *testing.T) {
	s, _ := testServer(t)
	rec := doGet(t, NewRouter(s), "/status")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}
