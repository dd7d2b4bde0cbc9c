package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Redis is a Redis-backed cache. Values are JSON-encoded; keys are
// namespaced with a prefix so separate cache instances never collide.
// Suitable for deployments where multiple instances should share scraped
// data within its TTL.
type Redis[V any] struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
	logger     *zap.Logger
}

// NewRedis creates a Redis-backed cache and verifies connectivity.
func NewRedis[V any](cfg RedisConfig, keyPrefix string, defaultTTL time.Duration, logger *zap.Logger) (*Redis[V], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis[V]{
		client:     client,
		keyPrefix:  keyPrefix,
		defaultTTL: defaultTTL,
		logger:     logger,
	}, nil
}

// Get returns the value for key. Decode failures are treated as misses so a
// schema change never poisons the cache.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		r.logger.Warn("redis cache entry undecodable, treating as miss",
			zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// Set stores value under key with the default TTL.
func (r *Redis[V]) Set(ctx context.Context, key string, value V) {
	r.SetWithTTL(ctx, key, value, r.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (r *Redis[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis cache entry not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, data, ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes key, reporting whether it was present.
func (r *Redis[V]) Delete(ctx context.Context, key string) bool {
	removed, err := r.client.Del(ctx, r.keyPrefix+key).Result()
	if err != nil {
		r.logger.Warn("redis del failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return removed > 0
}

// Clear removes all entries under this cache's prefix.
func (r *Redis[V]) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("redis del failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("redis scan failed", zap.Error(err))
	}
}

// Cleanup is a no-op for Redis, which expires keys server-side.
func (r *Redis[V]) Cleanup(context.Context) int { return 0 }

// Close closes the underlying client.
func (r *Redis[V]) Close() error {
	return r.client.Close()
}
