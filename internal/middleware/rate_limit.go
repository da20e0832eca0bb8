package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adibenmati/ip2distance/internal/limiter"
	"github.com/adibenmati/ip2distance/internal/models"
)

// RateLimitMiddleware enforces rate limiting per client IP (returns 429 when exceeded)
func RateLimitMiddleware(lim limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: "Rate limit exceeded. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP picks the address rate limiting buckets by.
// Priority: X-Real-IP > first X-Forwarded-For entry > RemoteAddr
func clientIP(r *http.Request) string {
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// X-Forwarded-For can hold a chain ("client, proxy1, proxy2");
	// the leftmost entry is the original client
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}

	return r.RemoteAddr
}
