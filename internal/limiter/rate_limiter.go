package limiter

import (
	"sync"
	"time"
)

// Limiter is the interface all rate limiters implement
// Allows swapping between in-memory and Redis implementations
type Limiter interface {
	// Allow checks if a request from the given IP should be allowed
	// Returns true if allowed, false if rate limited
	Allow(ip string) bool

	// Close cleans up any resources (Redis connections, goroutines, etc.)
	Close() error
}

// TokenBucket holds the rate-limiting state for a single client.
// Tokens refill at a fixed rate; each request consumes one token, and an
// empty bucket means the request is rejected. Bursts up to the capacity
// are allowed.
type TokenBucket struct {
	tokens         float64
	capacity       float64
	refillRate     float64 // tokens added per second
	lastRefillTime time.Time
	mu             sync.Mutex // protects tokens and lastRefillTime
}

// NewTokenBucket creates a token bucket that starts full.
// For fractional rates (e.g. 0.2 req/s) capacity is clamped to 1 so the
// first request always passes.
func NewTokenBucket(rate float64, capacity float64) *TokenBucket {
	initialTokens := max(capacity, 1.0)

	return &TokenBucket{
		tokens:         initialTokens,
		capacity:       max(capacity, 1.0),
		refillRate:     rate,
		lastRefillTime: time.Now(),
	}
}

// Allow consumes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}

	return false
}

// refill adds tokens based on time elapsed since last refill
// Must be called with the mutex held
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()

	tb.tokens = min(tb.tokens+elapsed*tb.refillRate, tb.capacity)
	tb.lastRefillTime = now
}

// MemoryLimiter manages per-IP token buckets for a single-server deployment.
// Thread-safe via sync.Map.
type MemoryLimiter struct {
	buckets     sync.Map // map[string]*TokenBucket keyed by IP address
	rate        float64
	capacity    float64
	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter creates an in-memory rate limiter allowing
// requestsPerSecond per IP (fractional rates are fine, e.g. 0.2)
func NewMemoryLimiter(requestsPerSecond float64) *MemoryLimiter {
	return &MemoryLimiter{
		rate:        requestsPerSecond,
		capacity:    requestsPerSecond, // burst up to one second's worth
		lastCleanup: time.Now(),
	}
}

// Allow checks if a request from the given IP should be allowed
func (rl *MemoryLimiter) Allow(ip string) bool {
	bucket := rl.getBucket(ip)
	allowed := bucket.Allow()

	// Periodically drop idle buckets so the map doesn't grow forever
	rl.maybeCleanup()

	return allowed
}

// getBucket gets or creates the token bucket for an IP address
func (rl *MemoryLimiter) getBucket(ip string) *TokenBucket {
	if value, ok := rl.buckets.Load(ip); ok {
		return value.(*TokenBucket)
	}

	bucket := NewTokenBucket(rl.rate, rl.capacity)

	// LoadOrStore handles the race between two first requests from one IP
	actual, _ := rl.buckets.LoadOrStore(ip, bucket)
	return actual.(*TokenBucket)
}

// maybeCleanup removes buckets inactive for 5+ minutes, at most once every
// 5 minutes
func (rl *MemoryLimiter) maybeCleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}

	threshold := time.Now().Add(-5 * time.Minute)

	rl.buckets.Range(func(key, value interface{}) bool {
		bucket := value.(*TokenBucket)
		bucket.mu.Lock()
		lastAccess := bucket.lastRefillTime
		bucket.mu.Unlock()

		if lastAccess.Before(threshold) {
			rl.buckets.Delete(key)
		}

		return true
	})

	rl.lastCleanup = time.Now()
}

// Close satisfies the Limiter interface; the in-memory limiter holds no
// external resources
func (rl *MemoryLimiter) Close() error {
	return nil
}
