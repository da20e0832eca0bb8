package models

// IPInfo is the geolocation record the upstream service returns for a single
// IP address. Country and city may be empty for addresses the upstream cannot
// place; latitude and longitude are pointers so an unknown location stays
// distinguishable from a real location on the equator or prime meridian.
type IPInfo struct {
	IP        string   `json:"ip"`
	Country   string   `json:"country,omitempty"`
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the record carries both latitude and
// longitude. A half-populated record counts as having no location.
func (i IPInfo) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// IPPairSummaryRequest is the body of POST /ip. Both addresses are required;
// their syntax is not checked here, the upstream service decides what an
// acceptable IP looks like.
type IPPairSummaryRequest struct {
	IP1 string `json:"ip1" validate:"required"`
	IP2 string `json:"ip2" validate:"required"`
}

// IPPairSummary is the response of POST /ip. Distance is always derived from
// the two records, never supplied by the caller, and is present exactly when
// both records carry coordinates.
type IPPairSummary struct {
	Distance *float64 `json:"distance,omitempty"`
	IP1Info  IPInfo   `json:"ip1Info"`
	IP2Info  IPInfo   `json:"ip2Info"`
}

// NewIPPairSummary builds a pair summary from two resolved records, computing
// the distance between them when both are geolocated.
func NewIPPairSummary(ip1Info, ip2Info IPInfo) IPPairSummary {
	return IPPairSummary{
		Distance: DistanceBetween(ip1Info, ip2Info),
		IP1Info:  ip1Info,
		IP2Info:  ip2Info,
	}
}

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
