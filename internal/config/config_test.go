package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shramba.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "https://world.openfoodfacts.org", cfg.OpenFoodFactsBaseURL)
	assert.Equal(t, "zbarimg", cfg.ZbarimgPath)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHRAMBA_DB_PATH", "/tmp/pantry.db")
	t.Setenv("SHRAMBA_LOG_LEVEL", "debug")
	t.Setenv("SHRAMBA_JWT_SECRET", "s3cret")
	t.Setenv("SHRAMBA_SPOONACULAR_API_KEY", "key")
	t.Setenv("SHRAMBA_HTTP_TIMEOUT", "3s")
	t.Setenv("SHRAMBA_METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pantry.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "key", cfg.SpoonacularAPIKey)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"SHRAMBA_LOG_LEVEL":       "loud",
		"SHRAMBA_HTTP_TIMEOUT":    "soon",
		"SHRAMBA_METRICS_ENABLED": "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
