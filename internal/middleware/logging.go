package middleware

import (
	"net/http"
	"time"

	"github.com/adibenmati/ip2distance/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware emits one structured log line per request, with the
// level keyed off the response status
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code and size
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// 4xx is the caller's problem, 5xx is ours
			logEvent := log.Info()
			if ww.Status() >= 500 {
				logEvent = log.Error()
			} else if ww.Status() >= 400 {
				logEvent = log.Warn()
			}

			logEvent.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Msg("Request completed")
		})
	}
}
