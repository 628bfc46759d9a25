// ABOUTME: Configuration loader for the storefront client
// ABOUTME: Reads an optional .env file, then environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when neither flag nor environment sets the backend
const DefaultAPIURL = "http://localhost:8080/api"

// Config holds client settings
type Config struct {
	APIURL      string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8080/api"`
	ConfigDir   string        `env:"STOREFRONT_CONFIG_DIR"`
	HTTPTimeout time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"30s"`

	// Circuit breaker around backend calls
	BreakerTimeout      time.Duration `env:"STOREFRONT_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerMinRequests  uint32        `env:"STOREFRONT_BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerFailureRatio float64       `env:"STOREFRONT_BREAKER_FAILURE_RATIO" envDefault:"0.5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads .env (if present) and parses the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.ConfigDir == "" {
		cfg.ConfigDir = DefaultConfigDir()
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("STOREFRONT_API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("STOREFRONT_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG conventions
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storefront")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "storefront")
}
