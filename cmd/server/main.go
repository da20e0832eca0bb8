package main

import (
	"fmt"
	"net/http"

	"github.com/adibenmati/ip2distance/internal/config"
	"github.com/adibenmati/ip2distance/internal/geoip"
	"github.com/adibenmati/ip2distance/internal/handler"
	"github.com/adibenmati/ip2distance/internal/limiter"
	"github.com/adibenmati/ip2distance/internal/logger"
	"github.com/adibenmati/ip2distance/internal/metrics"
	"github.com/adibenmati/ip2distance/internal/router"
	"github.com/adibenmati/ip2distance/internal/service"
)

// @title           IP2Distance API
// @version         1.0
// @description     A gateway that resolves IP geolocation via an upstream service and computes the distance between IP pairs

// @contact.name   Adi Ben Mati

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	metricsCollector := setupMetrics(appLogger)
	geoClient := setupGeoIPClient(appConfig, metricsCollector, appLogger)

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	// Build application layers
	ipService := service.NewIPService(geoClient, metricsCollector, appLogger)
	ipHandler := handler.NewIPHandler(ipService)
	appRouter := router.SetupRouter(ipHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting IP2Distance Server...")
	appLogger.Info().
		Str("listen_addr", appConfig.ListenAddr()).
		Str("upstream_url", appConfig.UpstreamBaseURL()).
		Dur("upstream_timeout", appConfig.UpstreamTimeout).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupGeoIPClient initializes the upstream geolocation client
func setupGeoIPClient(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) *geoip.Client {
	client := geoip.NewClient(appConfig.UpstreamBaseURL(), appConfig.UpstreamTimeout, m, log)
	fmt.Printf("✅ Upstream geoip client initialized (%s)\n", appConfig.UpstreamBaseURL())
	return client
}

// setupRateLimiter initializes the rate limiter
// Supports in-memory and Redis-based rate limiting
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	// Calculate effective rate: requests per second
	// Example: 10 requests per 5 seconds = 10/5 = 2.0 req/s
	effectiveRate := float64(appConfig.RateLimit) / float64(appConfig.RateLimitWindow)

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec = %.2f req/s)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow, effectiveRate)

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := appConfig.ListenAddr()

	log.Info().
		Str("addr", serverAddr).
		Str("single_lookup", "http://localhost:"+appConfig.Port+"/ip/<ip>").
		Str("pair_summary", "http://localhost:"+appConfig.Port+"/ip").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
