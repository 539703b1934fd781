// Package config handles loading and managing application configuration
// from YAML files, .env files, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Artistic holds the appearance settings for the artistic QR style.
type Artistic struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Circles    bool   `yaml:"circles"`
}

// Config holds all application configuration values.
type Config struct {
	OutputRoot string   `yaml:"output_root"`
	LogoDir    string   `yaml:"logo_dir"`
	Template   string   `yaml:"template"`
	Port       int      `yaml:"port"`
	LogLevel   string   `yaml:"log_level"`
	Artistic   Artistic `yaml:"artistic"`
}

// defaults returns a Config populated with sensible default values.
// Output and logo directories are relative to the working directory,
// matching the layout the tool expects to run from.
func defaults() *Config {
	return &Config{
		OutputRoot: "output",
		LogoDir:    "logo",
		Template:   "",
		Port:       8556,
		LogLevel:   "info",
		Artistic: Artistic{
			Foreground: "#1B1B1B",
			Background: "#FFFFFF",
			Circles:    true,
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working
// directory is loaded first; environment variables with the WIFICARD_
// prefix override any file or default values.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies WIFICARD_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WIFICARD_OUTPUT_ROOT"); v != "" {
		cfg.OutputRoot = v
	}
	if v := os.Getenv("WIFICARD_LOGO_DIR"); v != "" {
		cfg.LogoDir = v
	}
	if v := os.Getenv("WIFICARD_TEMPLATE"); v != "" {
		cfg.Template = v
	}
	if v := os.Getenv("WIFICARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("WIFICARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WIFICARD_FG"); v != "" {
		cfg.Artistic.Foreground = v
	}
	if v := os.Getenv("WIFICARD_BG"); v != "" {
		cfg.Artistic.Background = v
	}
	if v := os.Getenv("WIFICARD_CIRCLES"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.Artistic.Circles = true
		case "false", "0", "no":
			cfg.Artistic.Circles = false
		}
	}
}

// EnsureDirs creates the output root if it does not already exist. The
// logo directory is deliberately not created: its absence is a
// user-facing error during logo discovery.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.OutputRoot, 0o755); err != nil {
		return fmt.Errorf("creating output root %s: %w", c.OutputRoot, err)
	}
	return nil
}

// HistoryPath returns the location of the generation history database,
// kept alongside the generated runs.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.OutputRoot, "history.db")
}
