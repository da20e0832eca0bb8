package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adibenmati/ip2distance/internal/limiter"
	"github.com/adibenmati/ip2distance/internal/models"
)

// TestRateLimitMiddleware_Allowed tests request allowed
func TestRateLimitMiddleware_Allowed(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(true) // Allow all

	middleware := RateLimitMiddleware(mockLimiter)

	// Create a test handler that tracks if it was called
	nextCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	handler := middleware(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !nextCalled {
		t.Error("expected next handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "success" {
		t.Errorf("expected body 'success', got '%s'", rec.Body.String())
	}
}

// TestRateLimitMiddleware_RateLimited tests request blocked
func TestRateLimitMiddleware_RateLimited(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(false) // Block all

	middleware := RateLimitMiddleware(mockLimiter)

	nextCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	handler := middleware(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if nextCalled {
		t.Error("expected next handler NOT to be called")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rec.Code)
	}

	var errResp models.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&errResp)

	if errResp.Error != "Rate limit exceeded. Please try again later." {
		t.Errorf("unexpected error message: %s", errResp.Error)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
}

// TestRateLimitMiddleware_ClientIP tests the bucket key extraction
func TestRateLimitMiddleware_ClientIP(t *testing.T) {
	tests := []struct {
		name          string
		remoteAddr    string
		xRealIP       string
		xForwardedFor string
		expectedIP    string
	}{
		{
			name:       "RemoteAddr only",
			remoteAddr: "192.168.1.1:12345",
			expectedIP: "192.168.1.1:12345",
		},
		{
			name:       "X-Real-IP takes priority",
			remoteAddr: "192.168.1.1:12345",
			xRealIP:    "10.0.0.1",
			expectedIP: "10.0.0.1",
		},
		{
			name:          "X-Forwarded-For when no X-Real-IP",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.0.2",
			expectedIP:    "10.0.0.2",
		},
		{
			name:          "X-Real-IP over X-Forwarded-For",
			remoteAddr:    "192.168.1.1:12345",
			xRealIP:       "10.0.0.1",
			xForwardedFor: "10.0.0.2",
			expectedIP:    "10.0.0.1",
		},
		{
			name:          "X-Forwarded-For chain keeps the original client",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.0.3, 10.0.0.4, 10.0.0.5",
			expectedIP:    "10.0.0.3",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[2001:db8::1]:8080",
			expectedIP: "[2001:db8::1]:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLimiter := limiter.NewMockLimiter(true)
			middleware := RateLimitMiddleware(mockLimiter)

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := middleware(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// Check that limiter was called with expected IP
			if len(mockLimiter.AllowCalls) != 1 {
				t.Fatalf("expected 1 limiter call, got %d", len(mockLimiter.AllowCalls))
			}
			if mockLimiter.AllowCalls[0] != tt.expectedIP {
				t.Errorf("expected IP %s, limiter called with %s", tt.expectedIP, mockLimiter.AllowCalls[0])
			}
		})
	}
}

// TestRateLimitMiddleware_DifferentIPs tests requests from different IPs
func TestRateLimitMiddleware_DifferentIPs(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(true)
	middleware := RateLimitMiddleware(mockLimiter)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware(nextHandler)

	ips := []string{"192.168.1.1:12345", "192.168.1.2:12345", "192.168.1.3:12345"}

	for _, ip := range ips {
		req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
	}

	// Verify limiter was called for each IP
	if len(mockLimiter.AllowCalls) != 3 {
		t.Fatalf("expected limiter called 3 times, got %d", len(mockLimiter.AllowCalls))
	}

	for i, expectedIP := range ips {
		if mockLimiter.AllowCalls[i] != expectedIP {
			t.Errorf("call %d: expected IP %s, got %s", i, expectedIP, mockLimiter.AllowCalls[i])
		}
	}
}

// TestRateLimitMiddleware_EmptyHeaders tests behavior with empty headers
func TestRateLimitMiddleware_EmptyHeaders(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(true)
	middleware := RateLimitMiddleware(mockLimiter)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Real-IP", "")
	req.Header.Set("X-Forwarded-For", "")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Should fall back to RemoteAddr when headers are empty
	if len(mockLimiter.AllowCalls) != 1 {
		t.Fatalf("expected 1 limiter call, got %d", len(mockLimiter.AllowCalls))
	}
	if mockLimiter.AllowCalls[0] != "192.168.1.1:12345" {
		t.Errorf("expected RemoteAddr when headers empty, got %s", mockLimiter.AllowCalls[0])
	}
}

// TestRateLimitMiddleware_PreservesNextHandlerResponse tests that allowed requests preserve response
func TestRateLimitMiddleware_PreservesNextHandlerResponse(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(true)
	middleware := RateLimitMiddleware(mockLimiter)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom-Header", "test-value")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("custom response"))
	})

	handler := middleware(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/ip/8.8.8.8", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Verify next handler's response is preserved
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if rec.Header().Get("X-Custom-Header") != "test-value" {
		t.Errorf("expected custom header to be preserved")
	}
	if rec.Body.String() != "custom response" {
		t.Errorf("expected custom response body to be preserved")
	}
}
