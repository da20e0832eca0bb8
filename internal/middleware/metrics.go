package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/adibenmati/ip2distance/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MetricsMiddleware records HTTP metrics for each request. Metrics are
// labeled with the chi route pattern (e.g. /ip/{ip}) rather than the raw
// path, which keeps label cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap the response writer to capture status code and size
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// The route pattern is only known after routing has happened
			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.Status())

			if r.ContentLength > 0 {
				m.HTTPRequestSize.WithLabelValues(r.Method, endpoint).Observe(float64(r.ContentLength))
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, endpoint, status).Observe(duration)
			m.HTTPResponseSize.WithLabelValues(r.Method, endpoint, status).Observe(float64(ww.BytesWritten()))
		})
	}
}
