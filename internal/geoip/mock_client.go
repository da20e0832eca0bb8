package geoip

import (
	"context"
	"sync"

	"github.com/adibenmati/ip2distance/internal/models"
	"github.com/samber/lo"
)

// MockClient is a test double for the Resolver interface
// Pair summaries hit it from two goroutines at once, so call tracking is
// mutex-guarded
type MockClient struct {
	mu sync.Mutex

	// Data holds the mock data (IP address -> geolocation record)
	Data map[string]*models.IPInfo

	// Errors maps IP addresses to canned failures (checked before Data)
	Errors map[string]error

	// LookupHook, when set, runs at the start of every Lookup call.
	// Tests use it to coordinate or stall concurrent lookups.
	LookupHook func(ip string)

	// LookupCalls records every IP Lookup was invoked with, in arrival order
	LookupCalls []string
}

// NewMockClient creates a mock resolver pre-populated with sample records
func NewMockClient() *MockClient {
	return &MockClient{
		Data: map[string]*models.IPInfo{
			"8.8.8.8": {
				IP:        "8.8.8.8",
				Country:   "United States",
				City:      "Mountain View",
				Latitude:  lo.ToPtr(37.4),
				Longitude: lo.ToPtr(-122.1),
			},
			"1.1.1.1": {
				IP:        "1.1.1.1",
				Country:   "Australia",
				City:      "Sydney",
				Latitude:  lo.ToPtr(-33.8688),
				Longitude: lo.ToPtr(151.2093),
			},
		},
		Errors: map[string]error{},
	}
}

// Lookup implements the Resolver interface
// Unknown addresses come back as InvalidIPError, mirroring an upstream reject
func (m *MockClient) Lookup(_ context.Context, ip string) (*models.IPInfo, error) {
	m.mu.Lock()
	m.LookupCalls = append(m.LookupCalls, ip)
	hook := m.LookupHook
	m.mu.Unlock()

	if hook != nil {
		hook(ip)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[ip]; ok {
		return nil, err
	}

	info, ok := m.Data[ip]
	if !ok {
		return nil, &InvalidIPError{IP: ip}
	}

	return info, nil
}

// Calls returns a snapshot of the IPs Lookup was invoked with
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.LookupCalls...)
}
