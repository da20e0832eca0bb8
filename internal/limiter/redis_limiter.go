package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitScript counts requests per window atomically. INCR and EXPIRE
// must happen as one unit or two clients could both observe count 1.
var rateLimitScript = redis.NewScript(`
	local key = KEYS[1]
	local ttl = tonumber(ARGV[1])

	local current = redis.call('INCR', key)

	-- First request in this window starts the expiry clock
	if current == 1 then
		redis.call('EXPIRE', key, ttl)
	end

	return current
`)

// RedisLimiter implements distributed rate limiting backed by Redis, for
// deployments where several gateway instances share one budget per client.
//
// Fixed-window counting: requests land in a key per IP and time window
// ("ratelimit:{ip}:{window}"), windows expire on their own.
type RedisLimiter struct {
	client         *redis.Client
	requestsPerSec float64
	windowSize     time.Duration
}

// NewRedisLimiter creates a Redis-based rate limiter and verifies the
// connection.
//
// Parameters:
//   - addr: Redis server address (e.g. "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - requestsPerSecond: allowed requests per second per IP (can be fractional)
func NewRedisLimiter(addr, password string, db int, requestsPerSecond float64) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	// Fractional rates stretch the window instead of the budget:
	// 0.2 req/s becomes 1 request per 5-second window
	windowSize := time.Second
	if requestsPerSecond < 1.0 {
		windowSize = time.Duration(float64(time.Second) / requestsPerSecond)
	}

	return &RedisLimiter{
		client:         client,
		requestsPerSec: requestsPerSecond,
		windowSize:     windowSize,
	}, nil
}

// Allow checks if a request from the given IP should be allowed.
// On Redis errors it fails open rather than blocking legitimate traffic.
func (rl *RedisLimiter) Allow(ip string) bool {
	windowSeconds := int64(rl.windowSize.Seconds())
	window := time.Now().Unix() / windowSeconds
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	// TTL of two windows keeps a key alive through its own window plus slack
	ttl := int(rl.windowSize.Seconds()) * 2

	result, err := rateLimitScript.Run(context.Background(), rl.client, []string{key}, ttl).Result()
	if err != nil {
		return true
	}

	count, ok := result.(int64)
	if !ok {
		return true
	}

	limit := int64(math.Ceil(rl.requestsPerSec * rl.windowSize.Seconds()))
	return count <= limit
}

// Close closes the Redis connection
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
