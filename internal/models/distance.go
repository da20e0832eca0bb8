package models

import (
	"github.com/adibenmati/ip2distance/internal/geo"
	"github.com/samber/lo"
)

// DistanceBetween returns the great-circle distance in kilometers between two
// geolocation records, or nil when either record lacks coordinates. A missing
// distance is the normal outcome for addresses the upstream service could not
// pin to a location, not an error.
func DistanceBetween(a, b IPInfo) *float64 {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return nil
	}

	return lo.ToPtr(geo.Distance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude))
}
