package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a value within its TTL", func(t *testing.T) {
		c := NewMemory[string](time.Second)
		c.Set(ctx, "k", "v")

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("returns absent for unknown key", func(t *testing.T) {
		c := NewMemory[string](time.Second)
		_, ok := c.Get(ctx, "missing")
		assert.False(t, ok)
	})

	t.Run("expired entry is absent and evicted on read", func(t *testing.T) {
		c := NewMemory[string](time.Hour)
		c.SetWithTTL(ctx, "k", "v", 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)

		// Read-time eviction removed the entry, so the sweep finds nothing.
		assert.Equal(t, 0, c.Cleanup(ctx))
	})

	t.Run("per-set TTL overrides the default", func(t *testing.T) {
		c := NewMemory[int](10 * time.Millisecond)
		c.SetWithTTL(ctx, "k", 42, time.Hour)
		time.Sleep(20 * time.Millisecond)

		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, 42, got)
	})
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](time.Second)
	c.Set(ctx, "k", "v")

	assert.True(t, c.Delete(ctx, "k"))
	assert.False(t, c.Delete(ctx, "k"), "second delete reports absent")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](time.Second)
	c.Set(ctx, "a", "1")
	c.Set(ctx, "b", "2")

	c.Clear(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCleanup(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string](time.Hour)
	c.SetWithTTL(ctx, "stale1", "v", 10*time.Millisecond)
	c.SetWithTTL(ctx, "stale2", "v", 10*time.Millisecond)
	c.Set(ctx, "fresh", "v")

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 2, c.Cleanup(ctx))
	assert.Equal(t, 0, c.Cleanup(ctx), "second sweep removes nothing")

	got, ok := c.Get(ctx, "fresh")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](time.Second)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Set(ctx, "shared", n)
				c.Get(ctx, "shared")
				c.Cleanup(ctx)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	_, ok := c.Get(ctx, "shared")
	assert.True(t, ok)
}
