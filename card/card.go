// Package card orchestrates a full generation run: payload encoding,
// logo discovery, QR rendering, the timestamped output directory, PDF
// stamping, and the history record.
package card

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hostelware/wificard/config"
	"github.com/hostelware/wificard/pdf"
	"github.com/hostelware/wificard/qr"
	"github.com/hostelware/wificard/store"
	"github.com/hostelware/wificard/wifi"
)

// runDirLayout names run directories after their creation time, one
// directory per generation run.
const runDirLayout = "2006-01-02_15-04-05"

// DefaultPNGName is the QR image filename inside a run directory.
const DefaultPNGName = "wifi_qr.png"

// DefaultPDFName is the stamped card filename inside a run directory.
const DefaultPDFName = "wifi_card.pdf"

// Request describes one generation run.
type Request struct {
	Network wifi.Network
	Style   qr.Style

	// LogoDir is scanned for the single logo file. Empty falls back to
	// the configured logo directory, when that exists on disk.
	LogoDir string

	// PNGName overrides DefaultPNGName when set.
	PNGName string

	// TemplatePath enables PDF stamping when set. LayoutPath optionally
	// points to a YAML layout; otherwise the stock layout is used.
	TemplatePath string
	LayoutPath   string
}

// Result reports where a generation run landed.
type Result struct {
	Payload  string `json:"payload"`
	RunDir   string `json:"run_dir"`
	PNGPath  string `json:"png_path"`
	PDFPath  string `json:"pdf_path,omitempty"`
	LogoPath string `json:"logo_path,omitempty"`
}

// Generator renders Wi-Fi cards into the configured output root and
// records them in the history store.
type Generator struct {
	cfg     *config.Config
	history *store.HistoryStore
	log     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewGenerator creates a Generator. history may be nil, in which case
// runs are not recorded.
func NewGenerator(cfg *config.Config, history *store.HistoryStore, log *slog.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		history: history,
		log:     log,
		now:     time.Now,
	}
}

// Generate runs one full generation: validates the network, renders
// the QR (classic or artistic, with the discovered logo if requested),
// writes everything into a fresh timestamped run directory, stamps the
// PDF template when one is given, and records the run.
func (g *Generator) Generate(req Request) (*Result, error) {
	if err := req.Network.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}

	payload := req.Network.Payload()
	res := &Result{Payload: payload}

	opts := qr.Options{
		Style:      req.Style,
		Foreground: g.cfg.Artistic.Foreground,
		Background: g.cfg.Artistic.Background,
		Circles:    g.cfg.Artistic.Circles,
	}

	// The configured logo directory is the fallback for every style:
	// a present logo dir means the code gets a logo, flags or not.
	logoDir := req.LogoDir
	if logoDir == "" && g.cfg.LogoDir != "" {
		if _, err := os.Stat(g.cfg.LogoDir); err == nil {
			logoDir = g.cfg.LogoDir
		}
	}

	if logoDir != "" {
		logoPath, err := qr.FindLogo(logoDir)
		if err != nil {
			return nil, err
		}
		logo, err := qr.LoadLogo(logoPath)
		if err != nil {
			return nil, err
		}
		opts.Logo = logo
		res.LogoPath = logoPath
		g.log.Debug("logo discovered", "path", logoPath)
	}

	png, err := qr.Render(payload, opts)
	if err != nil {
		return nil, fmt.Errorf("render QR: %w", err)
	}

	runDir := filepath.Join(g.cfg.OutputRoot, g.now().Format(runDirLayout))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir %s: %w", runDir, err)
	}
	res.RunDir = runDir

	pngName := req.PNGName
	if pngName == "" {
		pngName = DefaultPNGName
	}
	res.PNGPath = filepath.Join(runDir, pngName)
	if err := os.WriteFile(res.PNGPath, png, 0o644); err != nil {
		return nil, fmt.Errorf("write QR image: %w", err)
	}
	g.log.Info("QR code generated", "ssid", req.Network.SSID, "style", string(req.Style), "path", res.PNGPath)

	if req.TemplatePath != "" {
		tpl := pdf.DefaultTemplate()
		if req.LayoutPath != "" {
			tpl, err = pdf.LoadTemplate(req.LayoutPath)
			if err != nil {
				return nil, err
			}
		}
		res.PDFPath = filepath.Join(runDir, DefaultPDFName)
		if err := pdf.StampCard(req.TemplatePath, res.PDFPath, tpl, req.Network.SSID, req.Network.Password, png); err != nil {
			return nil, fmt.Errorf("stamp card: %w", err)
		}
		g.log.Info("card stamped", "template", req.TemplatePath, "path", res.PDFPath)
	}

	if g.history != nil {
		rec := &store.Record{
			SSID:     req.Network.SSID,
			Security: string(req.Network.Security),
			Style:    string(req.Style),
			LogoPath: res.LogoPath,
			PNGPath:  res.PNGPath,
			PDFPath:  res.PDFPath,
		}
		if err := g.history.SaveRecord(rec); err != nil {
			// History is bookkeeping; a failed insert must not fail the run.
			g.log.Warn("recording history failed", "error", err)
		}
	}

	return res, nil
}

// RenderPreview renders the network's QR without touching the
// filesystem or the history, for the web preview.
func (g *Generator) RenderPreview(n wifi.Network, style qr.Style) (string, []byte, error) {
	if err := n.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid network: %w", err)
	}
	payload := n.Payload()
	png, err := qr.Render(payload, qr.Options{
		Style:      style,
		Foreground: g.cfg.Artistic.Foreground,
		Background: g.cfg.Artistic.Background,
		Circles:    g.cfg.Artistic.Circles,
	})
	if err != nil {
		return "", nil, fmt.Errorf("render QR: %w", err)
	}
	return payload, png, nil
}
