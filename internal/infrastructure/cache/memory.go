package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a stored value with its expiration time.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-memory TTL cache. A single coarse mutex guards the
// read-check-evict and write paths so interleaved callers never observe a
// half-updated entry. Expired entries are evicted lazily on Get; Cleanup is
// an explicit sweep, not a background timer.
type Memory[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	defaultTTL time.Duration
}

// NewMemory creates an in-memory cache with the given default TTL.
func NewMemory[V any](defaultTTL time.Duration) *Memory[V] {
	return &Memory[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: defaultTTL,
	}
}

// Get returns the value for key if present and not expired. An expired entry
// is removed on the spot and reported as absent.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !time.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (m *Memory[V]) Set(ctx context.Context, key string, value V) {
	m.SetWithTTL(ctx, key, value, m.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (m *Memory[V]) SetWithTTL(_ context.Context, key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes key, reporting whether it was present.
func (m *Memory[V]) Delete(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	return true
}

// Clear removes all entries.
func (m *Memory[V]) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry[V])
}

// Cleanup removes every entry whose expiry has passed, even if it is never
// read again, and returns the number removed.
func (m *Memory[V]) Cleanup(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	count := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			count++
		}
	}
	return count
}

// Close is a no-op for the in-memory cache.
func (m *Memory[V]) Close() error { return nil }
