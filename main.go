package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hostelware/wificard/api"
	"github.com/hostelware/wificard/card"
	"github.com/hostelware/wificard/config"
	"github.com/hostelware/wificard/pdf"
	"github.com/hostelware/wificard/prompt"
	"github.com/hostelware/wificard/qr"
	"github.com/hostelware/wificard/store"
	"github.com/hostelware/wificard/wifi"
)

var version = "v0.3.1"

func main() {
	root := &cobra.Command{
		Use:   "wificard",
		Short: "Generate Wi-Fi join QR codes and printable cards",
	}

	var configPath string
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	// --- generate command ----------------------------------------------------
	var (
		genSSID     string
		genPassword string
		genSecurity string
		genHidden   bool
		genStyle    string
		genLogoDir  string
		genPNGName  string
		genTemplate string
		genLayout   string
		genPreview  bool
		genNoColor  bool
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Wi-Fi QR code (interactive when --ssid is omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if genNoColor {
				color.NoColor = true
			}
			return runGenerate(configPath, generateOpts{
				ssid:     genSSID,
				password: genPassword,
				security: genSecurity,
				hidden:   genHidden,
				style:    genStyle,
				logoDir:  genLogoDir,
				pngName:  genPNGName,
				template: genTemplate,
				layout:   genLayout,
				preview:  genPreview,
			})
		},
	}
	generateCmd.Flags().StringVar(&genSSID, "ssid", "", "Network name")
	generateCmd.Flags().StringVar(&genPassword, "password", "", "Network password")
	generateCmd.Flags().StringVar(&genSecurity, "security", "wpa", "Security scheme (wpa, wep, nopass)")
	generateCmd.Flags().BoolVar(&genHidden, "hidden", false, "Network does not broadcast its SSID")
	generateCmd.Flags().StringVar(&genStyle, "style", "classic", "Rendering style (classic, artistic)")
	generateCmd.Flags().StringVar(&genLogoDir, "logo-dir", "", "Directory holding the single logo file to embed")
	generateCmd.Flags().StringVar(&genPNGName, "output", "", "QR image filename inside the run directory")
	generateCmd.Flags().StringVar(&genTemplate, "pdf", "", "PDF template to stamp the card into")
	generateCmd.Flags().StringVar(&genLayout, "layout", "", "YAML layout overriding the stock card layout")
	generateCmd.Flags().BoolVar(&genPreview, "preview", false, "Also print the QR code on the terminal")
	generateCmd.Flags().BoolVar(&genNoColor, "no-color", false, "Disable colored output")
	root.AddCommand(generateCmd)

	// --- card command --------------------------------------------------------
	var (
		cardPNG      string
		cardSSID     string
		cardPassword string
		cardTemplate string
		cardLayout   string
		cardOut      string
	)
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Stamp an existing QR image into a PDF card template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard(configPath, cardPNG, cardSSID, cardPassword, cardTemplate, cardLayout, cardOut)
		},
	}
	cardCmd.Flags().StringVar(&cardPNG, "png", "", "QR image to stamp (required)")
	cardCmd.Flags().StringVar(&cardSSID, "ssid", "", "Network name to print on the card (required)")
	cardCmd.Flags().StringVar(&cardPassword, "password", "", "Password to print on the card")
	cardCmd.Flags().StringVar(&cardTemplate, "template", "", "PDF template (defaults to the configured one)")
	cardCmd.Flags().StringVar(&cardLayout, "layout", "", "YAML layout overriding the stock card layout")
	cardCmd.Flags().StringVar(&cardOut, "out", card.DefaultPDFName, "Output PDF path")
	cardCmd.MarkFlagRequired("png")
	cardCmd.MarkFlagRequired("ssid")
	root.AddCommand(cardCmd)

	// --- history command -----------------------------------------------------
	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(configPath, "", historyLimit)
		},
	}
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 20, "Maximum records to show")
	historyCmd.AddCommand(&cobra.Command{
		Use:   "search [query]",
		Short: "Full-text search past runs by SSID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(configPath, args[0], historyLimit)
		},
	})
	root.AddCommand(historyCmd)

	// --- serve command -------------------------------------------------------
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web preview UI and the history API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	root.AddCommand(serveCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wificard %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type generateOpts struct {
	ssid     string
	password string
	security string
	hidden   bool
	style    string
	logoDir  string
	pngName  string
	template string
	layout   string
	preview  bool
}

// runGenerate is the main CLI path: collect the network (from flags or
// the wizard), render, write the run directory, optionally stamp the
// PDF, and record the run.
func runGenerate(configPath string, opts generateOpts) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	req := card.Request{
		PNGName:      opts.pngName,
		TemplatePath: opts.template,
		LayoutPath:   opts.layout,
	}

	if opts.ssid == "" {
		answers, err := prompt.NewWizard(os.Stdin, os.Stdout).Run()
		if err != nil {
			return fmt.Errorf("wizard: %w", err)
		}
		req.Network = answers.Network
		req.Style = answers.Style
	} else {
		sec, err := wifi.ParseSecurity(opts.security)
		if err != nil {
			return err
		}
		style, err := qr.ParseStyle(opts.style)
		if err != nil {
			return err
		}
		req.Network = wifi.Network{
			SSID:     opts.ssid,
			Password: opts.password,
			Security: sec,
			Hidden:   opts.hidden,
		}
		req.Style = style
	}

	req.LogoDir = opts.logoDir
	if req.TemplatePath == "" && cfg.Template != "" {
		if _, err := os.Stat(cfg.Template); err == nil {
			req.TemplatePath = cfg.Template
		}
	}

	history, err := store.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	res, err := card.NewGenerator(cfg, history, log).Generate(req)
	if err != nil {
		return err
	}

	if opts.preview {
		fmt.Println()
		qr.Preview(res.Payload, os.Stdout)
		fmt.Println()
	}

	ok := color.New(color.FgGreen, color.Bold)
	ok.Printf("✔ QR code written to %s\n", res.PNGPath)
	if res.PDFPath != "" {
		ok.Printf("✔ Card written to %s\n", res.PDFPath)
	}
	return nil
}

// runCard stamps an already rendered QR image into a PDF template.
func runCard(configPath, pngPath, ssid, password, templatePath, layoutPath, outPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if templatePath == "" {
		templatePath = cfg.Template
	}
	if templatePath == "" {
		return fmt.Errorf("no PDF template: pass --template or set template in the config")
	}

	tpl := pdf.DefaultTemplate()
	if layoutPath != "" {
		tpl, err = pdf.LoadTemplate(layoutPath)
		if err != nil {
			return err
		}
	}

	png, err := os.ReadFile(pngPath)
	if err != nil {
		return fmt.Errorf("read QR image: %w", err)
	}

	if err := pdf.StampCard(templatePath, outPath, tpl, ssid, password, png); err != nil {
		return fmt.Errorf("stamp card: %w", err)
	}

	color.New(color.FgGreen, color.Bold).Printf("✔ Card written to %s\n", outPath)
	return nil
}

// runHistory lists or searches the recorded runs.
func runHistory(configPath, query string, limit int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	history, err := store.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	var recs []store.Record
	if query == "" {
		recs, err = history.ListRecords(limit)
	} else {
		recs, err = history.SearchRecords(query, limit)
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	header := color.New(color.Bold)
	header.Printf("%-20s %-24s %-8s %-8s %s\n", "WHEN", "SSID", "SECURITY", "STYLE", "PNG")
	for _, rec := range recs {
		fmt.Printf("%-20s %-24s %-8s %-8s %s\n",
			time.Unix(rec.CreatedAt, 0).Format("2006-01-02 15:04:05"),
			rec.SSID, rec.Security, rec.Style, rec.PNGPath)
	}
	return nil
}

// runServe wires the web preview and history API together and runs the
// HTTP server until a shutdown signal arrives.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	// 2. Setup logger
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting wificard", "version", version, "port", cfg.Port, "output_root", cfg.OutputRoot)

	// 3. Open history store
	history, err := store.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	// 4. Wire the generator and HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Gen:     card.NewGenerator(cfg, history, log),
			Store:   history,
			Log:     log,
			Version: version,
			Started: time.Now(),
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("preview is up", "url", fmt.Sprintf("http://localhost:%d/", cfg.Port))

	// 5. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
