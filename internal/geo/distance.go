// Package geo provides the spherical distance math behind the pair summary
// endpoint.
package geo

import "math"

// earthRadiusKm is the mean radius of the Earth in kilometers.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two points
// given in decimal degrees, using the haversine formula:
// https://en.wikipedia.org/wiki/Haversine_formula
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	deltaPhi := radians(lat2 - lat1)
	deltaLambda := radians(lon2 - lon1)

	a := math.Pow(math.Sin(deltaPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(deltaLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
