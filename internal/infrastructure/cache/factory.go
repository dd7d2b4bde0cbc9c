package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config selects and parameterizes a cache backend.
type Config struct {
	Backend    Backend
	DefaultTTL time.Duration
	Redis      RedisConfig
	// AllowMemoryFallback falls back to the in-memory cache when Redis is
	// configured but unreachable. Fallback caches do not share state across
	// process instances.
	AllowMemoryFallback bool
}

// New builds a cache for the given namespace according to cfg. The namespace
// keeps Redis keyspaces of separate cache instances disjoint; the in-memory
// backend is naturally disjoint per instance.
func New[V any](cfg Config, namespace string, logger *zap.Logger) (Cache[V], error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory[V](cfg.DefaultTTL), nil
	case BackendRedis:
		c, err := NewRedis[V](cfg.Redis, namespace+":", cfg.DefaultTTL, logger)
		if err == nil {
			logger.Info("using Redis cache", zap.String("namespace", namespace))
			return c, nil
		}
		if !cfg.AllowMemoryFallback {
			return nil, err
		}
		logger.Warn("Redis unavailable, falling back to in-memory cache",
			zap.String("namespace", namespace), zap.Error(err))
		return NewMemory[V](cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
