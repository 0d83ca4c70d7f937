// Package cache provides a small in-memory TTL cache. It is injected where
// needed rather than living as ambient package state, so call sites can swap
// it for a shared cache without changing.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long entries stay fresh unless configured otherwise.
// Staleness up to the TTL is an accepted tradeoff, not a correctness issue.
const DefaultTTL = 24 * time.Hour

type entry[T any] struct {
	value   T
	expires time.Time
}

// TTL is a process-lifetime map cache with per-entry expiry. Eviction is
// lazy: expired entries are dropped when read. No teardown is needed beyond
// process exit.
type TTL[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// uses DefaultTTL.
func New[T any](ttl time.Duration) *TTL[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock, for tests.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *TTL[T] {
	c := New[T](ttl)
	c.now = now
	return c
}

// Get returns the fresh value for key, if any.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
