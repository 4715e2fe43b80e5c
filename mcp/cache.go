package mcp

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ttlForever marks a cache entry that never expires until manually
// invalidated (§4.8 "Resource cache ... TTL=∞").
const ttlForever time.Duration = -1

// refreshCache is a single-entry cache with TTL expiry and singleflight
// deduplication of concurrent refreshes, adapted from the teacher's
// registry.MemoryCache (which triggers a best-effort background refresh over
// a channel) to block concurrent callers on one shared in-flight refresh
// instead, matching §5's "reads during a refresh join the in-flight
// refresh".
type refreshCache[T any] struct {
	ttl time.Duration

	mu        sync.RWMutex
	value     T
	has       bool
	expiresAt time.Time

	group singleflight.Group
}

func newRefreshCache[T any](ttl time.Duration) *refreshCache[T] {
	return &refreshCache[T]{ttl: ttl}
}

// get returns the cached value if present and unexpired, or runs fn to
// refresh it. Concurrent callers during a refresh share the same fn call.
func (c *refreshCache[T]) get(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	if c.ttl == 0 {
		return fn(ctx)
	}

	c.mu.RLock()
	valid := c.has && (c.ttl == ttlForever || time.Now().Before(c.expiresAt))
	cached := c.value
	c.mu.RUnlock()
	if valid {
		return cached, nil
	}

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// Re-check under the singleflight key in case a concurrent
		// refresh already completed while this call waited to join.
		c.mu.RLock()
		valid := c.has && (c.ttl == ttlForever || time.Now().Before(c.expiresAt))
		cached := c.value
		c.mu.RUnlock()
		if valid {
			return cached, nil
		}

		fresh, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.value = fresh
		c.has = true
		if c.ttl != ttlForever {
			c.expiresAt = time.Now().Add(c.ttl)
		}
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// invalidate clears the cached value, forcing the next get to refresh.
func (c *refreshCache[T]) invalidate() {
	c.mu.Lock()
	c.has = false
	var zero T
	c.value = zero
	c.mu.Unlock()
}
