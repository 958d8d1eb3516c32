// Package config loads host settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// AppName names the data directory.
const AppName = "entrifi"

type Config struct {
	DataDir  string `env:"ENTRIFI_DATA_DIR"`
	Database string `env:"ENTRIFI_DB"`
	Socket   string `env:"ENTRIFI_SOCKET"`
	PDFDir   string `env:"ENTRIFI_PDF_DIR"`

	MaxSubmissions         int  `env:"ENTRIFI_MAX_SUBMISSIONS" default:"10000"`
	RejectDuplicateSerials bool `env:"ENTRIFI_REJECT_DUPLICATE_SERIALS" default:"false"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// Load reads .env (if present) and the environment, fills path defaults
// and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		c.DataDir = filepath.Join(base, AppName)
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.DataDir, AppName+".db")
	}
	if c.Socket == "" {
		c.Socket = filepath.Join(c.DataDir, AppName+".sock")
	}
	if c.PDFDir == "" {
		c.PDFDir = os.TempDir()
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.MaxSubmissions < 0 {
		return errors.New("ENTRIFI_MAX_SUBMISSIONS must not be negative")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return nil
}

// EnsureDataDir creates the data directory with owner-only permissions.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
