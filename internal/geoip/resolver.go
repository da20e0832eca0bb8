package geoip

import (
	"context"

	"github.com/adibenmati/ip2distance/internal/models"
)

// Resolver defines the interface for upstream geolocation lookups
// Allows swapping the HTTP client for a mock in tests
type Resolver interface {
	// Lookup resolves geolocation information for a single IP address
	Lookup(ctx context.Context, ip string) (*models.IPInfo, error)
}
