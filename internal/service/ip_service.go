package service

import (
	"context"

	"github.com/adibenmati/ip2distance/internal/geoip"
	"github.com/adibenmati/ip2distance/internal/logger"
	"github.com/adibenmati/ip2distance/internal/metrics"
	"github.com/adibenmati/ip2distance/internal/models"
	"github.com/sourcegraph/conc"
)

// IPService handles business logic for IP geolocation requests
// This is the service layer - it sits between handlers and the upstream client
//
// Responsibilities:
//   - Delegate lookups to the upstream resolver
//   - Fan out pair requests and combine the two outcomes
//   - Track results in metrics
//
// It does not validate IP syntax: the upstream service decides what an
// acceptable address looks like.
type IPService struct {
	resolver geoip.Resolver
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewIPService creates a new IP service
//
// Parameters:
//   - resolver: any implementation of the Resolver interface
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewIPService(resolver geoip.Resolver, m *metrics.Metrics, log *logger.Logger) *IPService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPService{
		resolver: resolver,
		metrics:  m,
		logger:   log.WithComponent("IPService"),
	}
}

// LookupIP resolves geolocation information for a single IP address.
// The error is the resolver's own: an InvalidIPError when the upstream
// rejected the address, an upstream failure otherwise.
func (s *IPService) LookupIP(ctx context.Context, ip string) (*models.IPInfo, error) {
	s.logger.Debug().Str("ip", ip).Msg("Looking up IP address")

	info, err := s.resolver.Lookup(ctx, ip)
	if err != nil {
		if geoip.IsInvalidIP(err) {
			s.logger.Warn().Str("ip", ip).Msg("Upstream rejected IP address")
			s.trackLookup("invalid_ip")
		} else {
			s.logger.Error().Err(err).Str("ip", ip).Msg("Upstream lookup failed")
			s.trackLookup("upstream_error")
		}
		return nil, err
	}

	s.logger.Info().
		Str("ip", ip).
		Str("country", info.Country).
		Str("city", info.City).
		Msg("IP lookup successful")
	s.trackLookup("success")

	return info, nil
}

// PairSummary resolves both addresses concurrently and combines the outcomes
// into a single summary with the distance between them.
//
// Both lookups are issued before either is awaited, and both are always
// awaited even when the first to finish has already failed. When the two
// outcomes disagree, a rejected address wins over an upstream failure, and
// ip1's rejection wins over ip2's.
func (s *IPService) PairSummary(ctx context.Context, ip1, ip2 string) (*models.IPPairSummary, error) {
	s.logger.Debug().Str("ip1", ip1).Str("ip2", ip2).Msg("Looking up IP pair")

	var (
		info1, info2 *models.IPInfo
		err1, err2   error
	)

	// Fan out: each goroutine owns its slot exclusively until the join.
	var wg conc.WaitGroup
	wg.Go(func() { info1, err1 = s.resolver.Lookup(ctx, ip1) })
	wg.Go(func() { info2, err2 = s.resolver.Lookup(ctx, ip2) })
	wg.Wait()

	switch {
	case geoip.IsInvalidIP(err1):
		s.logger.Warn().Str("ip", ip1).Msg("Upstream rejected IP address")
		s.trackPair("invalid_ip")
		return nil, err1

	case geoip.IsInvalidIP(err2):
		s.logger.Warn().Str("ip", ip2).Msg("Upstream rejected IP address")
		s.trackPair("invalid_ip")
		return nil, err2

	case err1 != nil:
		s.logger.Error().Err(err1).Str("ip", ip1).Msg("Upstream lookup failed")
		s.trackPair("upstream_error")
		return nil, err1

	case err2 != nil:
		s.logger.Error().Err(err2).Str("ip", ip2).Msg("Upstream lookup failed")
		s.trackPair("upstream_error")
		return nil, err2
	}

	summary := models.NewIPPairSummary(*info1, *info2)

	logEvent := s.logger.Info().Str("ip1", ip1).Str("ip2", ip2)
	if summary.Distance != nil {
		logEvent = logEvent.Float64("distance_km", *summary.Distance)
	}
	logEvent.Msg("IP pair summary computed")
	s.trackPair("success")

	return &summary, nil
}

func (s *IPService) trackLookup(result string) {
	if s.metrics != nil {
		s.metrics.IPLookupsTotal.WithLabelValues(result).Inc()
	}
}

func (s *IPService) trackPair(result string) {
	if s.metrics != nil {
		s.metrics.PairSummariesTotal.WithLabelValues(result).Inc()
	}
}
