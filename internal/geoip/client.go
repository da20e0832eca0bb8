package geoip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/adibenmati/ip2distance/internal/logger"
	"github.com/adibenmati/ip2distance/internal/metrics"
	"github.com/adibenmati/ip2distance/internal/models"
	"github.com/pkg/errors"
)

// Client implements Resolver against the upstream geolocation HTTP service.
// One lookup is one GET /geoip/{ip} request; results are never cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates an upstream client rooted at baseURL (no trailing slash).
// A zero timeout means no client-side limit. Metrics may be nil; a nil logger
// falls back to the default one.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewDefault()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		logger:     log.WithComponent("GeoIPClient"),
	}
}

// Lookup resolves a single IP address against the upstream service.
//
// Outcomes:
//   - upstream 200: the decoded geolocation record
//   - upstream 400: *InvalidIPError (upstream rejected the address as malformed)
//   - any other status or a transport failure: an upstream error, logged here
//     and passed to the caller unchanged
func (c *Client) Lookup(ctx context.Context, ip string) (*models.IPInfo, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geoip/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build upstream request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("transport_error", start)
		return nil, errors.Wrapf(err, "geoip lookup for %s failed", ip)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		var info models.IPInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			c.observe("bad_body", start)
			return nil, errors.Wrapf(err, "cannot decode upstream response for %s", ip)
		}
		c.observe("resolved", start)
		return &info, nil

	case http.StatusBadRequest:
		// The body is upstream's own complaint and is discarded; the message
		// surfaced to callers comes from InvalidIPError.
		c.observe("invalid_ip", start)
		return nil, &InvalidIPError{IP: ip}

	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Str("ip", ip).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Unexpected upstream response")
		c.observe("upstream_error", start)
		return nil, errors.Errorf("geoip lookup for %s failed with status %d: %s", ip, resp.StatusCode, body)
	}
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	c.metrics.UpstreamRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
