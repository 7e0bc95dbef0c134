package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL    string
	Port           int
	BearerToken    string
	DefaultPoints  int
	MaxPoints      int
	DefaultLimit   int
	CacheTTL       time.Duration
	MaxUploadBytes int64
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		DefaultPoints:  1500,
		MaxPoints:      20000,
		DefaultLimit:   50,
		CacheTTL:       5 * time.Minute,
		MaxUploadBytes: 32 << 20,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if err := positiveInt("API_DEFAULT_POINTS", &cfg.DefaultPoints); err != nil {
		return cfg, err
	}
	if err := positiveInt("API_MAX_POINTS", &cfg.MaxPoints); err != nil {
		return cfg, err
	}
	if cfg.DefaultPoints > cfg.MaxPoints {
		return cfg, fmt.Errorf("API_DEFAULT_POINTS (%d) exceeds API_MAX_POINTS (%d)", cfg.DefaultPoints, cfg.MaxPoints)
	}

	if err := positiveInt("API_DEFAULT_LIMIT", &cfg.DefaultLimit); err != nil {
		return cfg, err
	}

	if v := os.Getenv("API_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid API_CACHE_TTL: %s", v)
		}
		cfg.CacheTTL = d
	}

	if v := os.Getenv("API_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid API_MAX_UPLOAD_BYTES: %s", v)
		}
		cfg.MaxUploadBytes = n
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func positiveInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s: %s", key, v)
	}
	*dst = n
	return nil
}
