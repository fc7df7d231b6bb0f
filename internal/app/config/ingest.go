// Package config loads the ingest command configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// IngestConfig holds configuration for the price ingest command.
type IngestConfig struct {
	// Symbols to ingest on every run.
	Symbols []string `yaml:"symbols"`
	// Period of history to fetch per run (1mo, 3mo, 6mo, 1y, 2y, 5y, max).
	Period string `yaml:"period"`
	// Schedule is a cron expression. Empty means run once and exit.
	Schedule  string `yaml:"schedule"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
}

// LoadIngest reads config from a YAML file, then applies environment variable
// overrides (INGEST_SYMBOLS as a comma-separated list, INGEST_PERIOD,
// INGEST_SCHEDULE). A missing file is fine as long as the overrides supply
// the symbols.
func LoadIngest(path string) (*IngestConfig, error) {
	cfg := &IngestConfig{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("INGEST_SYMBOLS"); v != "" {
		cfg.Symbols = cfg.Symbols[:0]
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Symbols = append(cfg.Symbols, s)
			}
		}
	}
	if v := os.Getenv("INGEST_PERIOD"); v != "" {
		cfg.Period = v
	}
	if v := os.Getenv("INGEST_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}

	if cfg.Period == "" {
		cfg.Period = "1mo"
	}
	if cfg.RateLimit.PerMinute <= 0 {
		cfg.RateLimit.PerMinute = 5
	}

	return cfg, nil
}

// Validate checks that the config can drive an ingest run.
func (c *IngestConfig) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("no symbols configured")
	}
	return nil
}
