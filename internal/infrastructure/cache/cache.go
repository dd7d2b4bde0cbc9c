// Package cache provides time-bounded key/value stores used by the platform
// connectors. Each connector owns its own cache instances; entries are never
// shared across platforms.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL-bounded key/value store.
type Cache[V any] interface {
	// Get returns the value for key, or false if absent or expired.
	Get(ctx context.Context, key string) (V, bool)
	// Set stores value under key with the cache's default TTL.
	Set(ctx context.Context, key string, value V)
	// SetWithTTL stores value under key with an explicit TTL.
	SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration)
	// Delete removes key, reporting whether it was present.
	Delete(ctx context.Context, key string) bool
	// Clear removes all entries.
	Clear(ctx context.Context)
	// Cleanup sweeps expired entries, returning the number removed.
	Cleanup(ctx context.Context) int
	// Close releases any resources held by the cache.
	Close() error
}

// Backend selects a cache implementation.
type Backend string

const (
	// BackendMemory is the in-process TTL cache.
	BackendMemory Backend = "memory"
	// BackendRedis is the Redis-backed cache for multi-instance deployments.
	BackendRedis Backend = "redis"
)
