// Package config reads service settings from SHRAMBA_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. SHRAMBA_DB_PATH.
const EnvPrefix = "SHRAMBA"

type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"shramba.db"`
	Addr     string `envconfig:"ADDR" default:":8080"`
	LogPath  string `envconfig:"LOG_PATH"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// JWTSecret overrides the secret persisted in the database.
	JWTSecret string `envconfig:"JWT_SECRET"`

	SpoonacularAPIKey    string `envconfig:"SPOONACULAR_API_KEY"`
	SpoonacularBaseURL   string `envconfig:"SPOONACULAR_BASE_URL" default:"https://api.spoonacular.com"`
	OpenFoodFactsBaseURL string `envconfig:"OPENFOODFACTS_BASE_URL" default:"https://world.openfoodfacts.org"`
	ZbarimgPath          string `envconfig:"ZBARIMG_PATH" default:"zbarimg"`

	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	MetricsEnabled bool          `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load parses the environment. Loading a .env file is the caller's job.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("%s_HTTP_TIMEOUT must be positive, got %s", EnvPrefix, cfg.HTTPTimeout)
	}
	return &cfg, nil
}

// Level returns the configured minimum log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
