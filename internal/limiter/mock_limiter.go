package limiter

// MockLimiter is a test double for the Limiter interface
// It allows tests to control allow/deny behavior and verify interactions
type MockLimiter struct {
	// AllowResult controls what Allow() returns
	AllowResult bool

	// Track method calls for verification in tests
	AllowCalls  []string // IPs that Allow() was called with
	CloseCalled bool

	// CloseError is returned from Close(), if set
	CloseError error
}

// NewMockLimiter creates a mock limiter that always answers allowResult
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
		AllowCalls:  []string{},
	}
}

// Allow implements the Limiter interface
func (m *MockLimiter) Allow(ip string) bool {
	m.AllowCalls = append(m.AllowCalls, ip)
	return m.AllowResult
}

// Close implements the Limiter interface
func (m *MockLimiter) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
