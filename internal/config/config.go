// Package config loads estimo settings from ESTIMO_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/caarlos0/env/v11"
)

// Config holds all process-level settings.
type Config struct {
	// AdminKey is the shared passcode for the admin view. It is a soft
	// gate, compared verbatim.
	AdminKey string `env:"ESTIMO_ADMIN_KEY" envDefault:"change-me-now"`

	// DBPath is the local draft store. Empty means ~/.estimo/estimo.db.
	DBPath string `env:"ESTIMO_DB"`

	// Published is an http(s) URL, an s3://bucket/key location or a file path.
	Published string `env:"ESTIMO_PUBLISHED" envDefault:"./data.json"`

	Rate          float64 `env:"ESTIMO_RATE"   envDefault:"45"`
	BufferPercent float64 `env:"ESTIMO_BUFFER" envDefault:"20"`

	LogCalls bool   `env:"ESTIMO_LOG_CALLS"`
	BaseURL  string `env:"ESTIMO_BASE_URL" envDefault:"http://localhost:8080/"`
	Listen   string `env:"ESTIMO_LISTEN"   envDefault:":8080"`

	FetchTimeoutMs int `env:"ESTIMO_FETCH_TIMEOUT_MS" envDefault:"10000"`
	FetchRetries   int `env:"ESTIMO_FETCH_RETRIES"    envDefault:"1"`

	S3Region    string `env:"ESTIMO_S3_REGION"`
	S3Endpoint  string `env:"ESTIMO_S3_ENDPOINT"`
	S3PathStyle bool   `env:"ESTIMO_S3_PATH_STYLE"`
}

// Load parses the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".estimo", "estimo.db")
	} else if strings.HasPrefix(cfg.DBPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}
	return cfg, nil
}

// Pricing returns the configured default pricing. An invalid rate falls
// back to the built-in default.
func (c Config) Pricing() domain.PricingConfig {
	p := domain.DefaultPricing()
	if withRate, err := p.WithRate(c.Rate); err == nil {
		p = withRate
	}
	return p.WithBuffer(c.BufferPercent)
}

// SourceOptions returns the settings handed to source.Open.
func (c Config) SourceOptions() source.OpenOptions {
	return source.OpenOptions{
		HTTP: source.HTTPConfig{
			TimeoutMs:  c.FetchTimeoutMs,
			MaxRetries: c.FetchRetries,
		},
		S3: source.S3Config{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
		},
	}
}
