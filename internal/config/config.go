package config

import (
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ListenHost string
	Port       string

	// Upstream geolocation service
	UpstreamHost    string
	UpstreamPort    string
	UpstreamTimeout time.Duration

	// Logging
	LogLevel  string // debug, info, warn, error
	LogPretty bool

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// Redis configuration (redis rate limiter backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In production/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		// Server config with defaults
		ListenHost: getEnv("LISTEN_HOST", "0.0.0.0"),
		Port:       getEnv("PORT", "8080"),

		// Upstream geolocation service
		UpstreamHost:    getEnv("UPSTREAM_HOST", "localhost"),
		UpstreamPort:    getEnv("UPSTREAM_PORT", "8090"),
		UpstreamTimeout: time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT", 10)) * time.Second,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		// Rate limiting (default: memory, 50 requests per 1 second)
		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 50),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		// Redis config
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, c.Port)
}

// UpstreamBaseURL returns the root URL of the upstream geolocation service.
func (c *Config) UpstreamBaseURL() string {
	return "http://" + net.JoinHostPort(c.UpstreamHost, c.UpstreamPort)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
// Returns default if not set or invalid
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
