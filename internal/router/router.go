package router

import (
	"net/http"

	"github.com/adibenmati/ip2distance/internal/handler"
	"github.com/adibenmati/ip2distance/internal/limiter"
	"github.com/adibenmati/ip2distance/internal/logger"
	custommiddleware "github.com/adibenmati/ip2distance/internal/middleware"
	"github.com/adibenmati/ip2distance/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - ipHandler: the IP geolocation handler
//   - rateLimiter: the rate limiter (memory or Redis)
//   - m: metrics collector
//   - log: structured logger
//
// Returns:
//   - chi.Router: configured router ready to use
func SetupRouter(ipHandler *handler.IPHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware - these run on every request
	// Order matters: RequestID first, then logging, then rate limiting
	r.Use(middleware.RequestID)                           // Unique request ID per request
	r.Use(middleware.RealIP)                              // Real client IP behind proxies/load balancers
	r.Use(custommiddleware.LoggingMiddleware(log))        // Structured logging
	r.Use(middleware.Recoverer)                           // Recover from panics and return 500
	r.Use(custommiddleware.RateLimitMiddleware(rateLimiter)) // Rate limiting per client IP
	r.Use(custommiddleware.MetricsMiddleware(m))          // Prometheus metrics

	// IP geolocation endpoints
	r.Get("/ip/{ip}", ipHandler.LookupIP)
	r.Post("/ip", ipHandler.PairSummary)

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// healthCheckHandler reports that the service is up. It does not
// probe the upstream geolocation service; a sick upstream shows up on the
// lookup endpoints and in the metrics instead.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
