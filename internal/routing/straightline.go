package routing

import (
	"context"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
	"github.com/dispatchroute/dispatchroute/pkg/polyline"
)

// averageSpeedKmh is the assumed average speed for straight-line duration
// estimates, matching the fleet-wide planning assumption.
const averageSpeedKmh = 50.0

// StraightLineProvider estimates a leg as the great-circle line between the
// two points. It is the always-available fallback when no routing provider
// is configured or the provider fails.
type StraightLineProvider struct{}

// NewStraightLineProvider creates a straight-line provider.
func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{}
}

// Name returns the provider name.
func (p *StraightLineProvider) Name() string {
	return "straight-line"
}

// GetRoute returns the straight-line leg between origin and destination.
// The geometry is the encoded two-point line.
func (p *StraightLineProvider) GetRoute(_ context.Context, origin, dest geo.Coordinate) (*Leg, error) {
	distance := geo.Distance(origin, dest)

	return &Leg{
		DistanceKm:       distance,
		DurationMinutes:  distance / averageSpeedKmh * 60,
		GeometryPolyline: polyline.Encode([]geo.Coordinate{origin, dest}),
		Provider:         p.Name(),
		Fallback:         true,
	}, nil
}
