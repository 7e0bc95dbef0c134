package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPattern = "*.csv"
	defaultWorkers = 4
	defaultTimeout = 2 * time.Minute
)

// Config holds runtime configuration for the ingest job.
type Config struct {
	DatabaseURL string
	Dir         string
	Pattern     string
	Workers     int
	Timeout     time.Duration
	DryRun      bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.Dir = strings.TrimSpace(os.Getenv("INGEST_DIR"))
	if cfg.Dir == "" {
		return cfg, errors.New("INGEST_DIR is required")
	}

	cfg.Pattern = strings.TrimSpace(os.Getenv("INGEST_PATTERN"))
	if cfg.Pattern == "" {
		cfg.Pattern = defaultPattern
	}
	if _, err := filepath.Match(cfg.Pattern, ""); err != nil {
		return cfg, fmt.Errorf("invalid INGEST_PATTERN: %w", err)
	}

	cfg.Workers = defaultWorkers
	if v := strings.TrimSpace(os.Getenv("INGEST_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid INGEST_WORKERS: %s", v)
		}
		cfg.Workers = n
	}

	cfg.Timeout = defaultTimeout
	if v := strings.TrimSpace(os.Getenv("INGEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid INGEST_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
