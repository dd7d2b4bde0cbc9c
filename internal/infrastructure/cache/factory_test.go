package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("builds memory cache by default", func(t *testing.T) {
		c, err := New[string](Config{DefaultTTL: time.Second}, "prices", nil)
		require.NoError(t, err)
		assert.IsType(t, &Memory[string]{}, c)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		_, err := New[string](Config{Backend: "memcached"}, "prices", nil)
		assert.Error(t, err)
	})

	t.Run("falls back to memory when Redis is unreachable", func(t *testing.T) {
		cfg := Config{
			Backend:             BackendRedis,
			DefaultTTL:          time.Second,
			Redis:               RedisConfig{Host: "127.0.0.1", Port: 1}, // nothing listens here
			AllowMemoryFallback: true,
		}
		c, err := New[string](cfg, "prices", nil)
		require.NoError(t, err)
		assert.IsType(t, &Memory[string]{}, c)
	})

	t.Run("errors when Redis is unreachable and fallback disabled", func(t *testing.T) {
		cfg := Config{
			Backend: BackendRedis,
			Redis:   RedisConfig{Host: "127.0.0.1", Port: 1},
		}
		_, err := New[string](cfg, "prices", nil)
		assert.Error(t, err)
	})
}
