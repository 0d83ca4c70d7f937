// Package ratelimit provides per-user quota checks using token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket refilled at a steady rate.
type bucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow consumes a token if one is available.
func (b *bucket) allow() (ok bool, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	b.tokens = min(float64(b.capacity), b.tokens+elapsed.Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	needed := (1.0 - b.tokens) / b.refillRate
	return false, time.Duration(needed * float64(time.Second))
}

// Limiter tracks a token bucket per client key.
type Limiter struct {
	buckets map[string]*bucket
	mu      sync.Mutex
	config  Config
}

// Config controls bucket sizing.
type Config struct {
	// Requests allowed per Window, with Burst above the steady rate.
	Requests int
	Window   time.Duration
	Burst    int
}

// DefaultConfig allows 30 generation requests per hour with a burst of 5.
func DefaultConfig() Config {
	return Config{
		Requests: 30,
		Window:   time.Hour,
		Burst:    5,
	}
}

// NewLimiter creates a limiter with the given config.
func NewLimiter(config Config) *Limiter {
	if config.Requests <= 0 {
		config = DefaultConfig()
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}
}

// Allow checks and consumes quota for key. When denied, retryAfter says how
// long until a token is available.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	b, exists := l.buckets[key]
	if !exists {
		capacity := l.config.Requests
		if l.config.Burst > 0 {
			capacity = l.config.Burst
		}
		rate := float64(l.config.Requests) / l.config.Window.Seconds()
		b = newBucket(capacity, rate)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.allow()
}
