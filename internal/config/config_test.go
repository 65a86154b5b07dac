package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/dawaa",
		"REDIS_URL":    "redis://localhost:6379/0",
		"PORT":         "",
		"APP_ENV":      "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 5, cfg.AddressCacheMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 60, cfg.RateLimitMax)
	require.True(t, cfg.DeliveryReminderEnabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost:5432/dawaa",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PORT":                 "9090",
		"CATALOG_CACHE_TTL":    "90s",
		"RATE_LIMIT_MAX":       "10",
		"ADDRESS_CACHE_MAX":    "3",
		"LOG_FORMAT":           "console",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, 10, cfg.RateLimitMax)
	require.Equal(t, 3, cfg.AddressCacheMax)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
