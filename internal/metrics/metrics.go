package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Upstream geolocation service metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Application Metrics
	IPLookupsTotal     *prometheus.CounterVec
	PairSummariesTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// Upstream geolocation service metrics
		UpstreamRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_geoip_requests_total",
				Help: "Total number of requests to the upstream geolocation service",
			},
			[]string{"outcome"},
		),

		UpstreamRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_geoip_request_duration_seconds",
				Help:    "Upstream geolocation request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		// Application Metrics
		IPLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ip_lookups_total",
				Help: "Total number of single IP lookups",
			},
			[]string{"result"},
		),

		PairSummariesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ip_pair_summaries_total",
				Help: "Total number of IP pair summary requests",
			},
			[]string{"result"},
		),
	}
}
