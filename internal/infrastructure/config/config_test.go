package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "cartfox-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
		assert.Equal(t, 20, cfg.Scraper.MaxConcurrent)
		assert.Equal(t, 60*time.Second, cfg.Scraper.CacheTTL)
		assert.Equal(t, "data/product_mappings.json", cfg.Scraper.MappingsPath)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with CARTFOX prefix", func(t *testing.T) {
		t.Setenv("CARTFOX_APP_NAME", "test-app")
		t.Setenv("CARTFOX_APP_PORT", "9000")
		t.Setenv("CARTFOX_SCRAPER_MAX_CONCURRENT", "5")
		t.Setenv("CARTFOX_SCRAPER_TIMEOUT", "3s")
		t.Setenv("CARTFOX_CACHE_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, 5, cfg.Scraper.MaxConcurrent)
		assert.Equal(t, 3*time.Second, cfg.Scraper.Timeout)
		assert.Equal(t, "redis", cfg.Cache.Backend)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		t.Setenv("CARTFOX_CACHE_BACKEND", "memcached")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects wildcard CORS origins in production", func(t *testing.T) {
		t.Setenv("CARTFOX_APP_ENV", "production")
		t.Setenv("CARTFOX_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("accepts defaults", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("rejects non-positive concurrency", func(t *testing.T) {
		cfg := base()
		cfg.Scraper.MaxConcurrent = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects invalid platform base URL", func(t *testing.T) {
		cfg := base()
		cfg.Scraper.Platforms = map[string]PlatformConfig{
			"freshmart": {BaseURL: "not a url", Enabled: true},
		}
		assert.Error(t, cfg.validate())
	})

	t.Run("ignores base URL of disabled platform", func(t *testing.T) {
		cfg := base()
		cfg.Scraper.Platforms = map[string]PlatformConfig{
			"freshmart": {BaseURL: "", Enabled: false},
		}
		assert.NoError(t, cfg.validate())
	})

	t.Run("rejects out-of-range sampling ratio", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})
}
