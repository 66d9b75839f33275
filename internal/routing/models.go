// Package routing provides multi-stop route ordering and single-leg route
// estimation for delivery runs.
package routing

import (
	"context"
	"errors"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
)

// DeliveryPoint is a single stop in a multi-stop run. The optimizer only
// inspects the coordinate; identifier and display metadata are carried
// through unmodified.
type DeliveryPoint struct {
	ShipmentID string `json:"shipment_id"`

	// Coordinate at its zero value means the stop has no known location;
	// route planning skips such stops rather than routing to (0,0).
	Coordinate geo.Coordinate `json:"coordinate"`

	Address       string `json:"address,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}

// Leg describes a single origin-to-destination route.
type Leg struct {
	// DistanceKm is the travel distance in kilometers.
	DistanceKm float64 `json:"distance_km"`

	// DurationMinutes is the unadjusted travel time.
	DurationMinutes float64 `json:"duration_minutes"`

	// GeometryPolyline is the encoded route geometry (precision 5).
	GeometryPolyline string `json:"geometry"`

	// Provider identifies where the leg came from.
	Provider string `json:"provider"`

	// Fallback is true when the leg is a straight-line estimate rather
	// than a routed path.
	Fallback bool `json:"-"`
}

// Provider defines the interface for single-leg route providers.
type Provider interface {
	// GetRoute computes a driving route between two points.
	GetRoute(ctx context.Context, origin, dest geo.Coordinate) (*Leg, error)

	// Name returns the provider identifier for logging.
	Name() string
}
