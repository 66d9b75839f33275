package routing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routed-path provider. May be nil, in which case
	// every leg is a straight-line estimate.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service computes single legs through a routing provider, degrading to a
// straight-line estimate on any provider failure. Geometry is an
// enhancement: callers always receive a usable leg.
type Service struct {
	provider Provider
	fallback *StraightLineProvider
	logger   zerolog.Logger
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		fallback: NewStraightLineProvider(),
		logger:   cfg.Logger,
	}
}

// GetLeg returns a route leg between two points. It never returns an error:
// when the provider is unavailable the straight-line estimate is served.
func (s *Service) GetLeg(ctx context.Context, origin, dest geo.Coordinate) *Leg {
	if s.provider == nil {
		leg, _ := s.fallback.GetRoute(ctx, origin, dest)
		return leg
	}

	leg, err := s.provider.GetRoute(ctx, origin, dest)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("origin_lat", origin.Lat).
			Float64("origin_lon", origin.Lon).
			Float64("dest_lat", dest.Lat).
			Float64("dest_lon", dest.Lon).
			Str("provider", s.provider.Name()).
			Msg("routing provider failed, serving straight-line leg")
		leg, _ = s.fallback.GetRoute(ctx, origin, dest)
		return leg
	}

	// A routed path with no geometry still gets the two-point line so
	// map consumers always have something to draw.
	if leg.GeometryPolyline == "" {
		fb, _ := s.fallback.GetRoute(ctx, origin, dest)
		leg.GeometryPolyline = fb.GeometryPolyline
	}

	return leg
}
