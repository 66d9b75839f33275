// Package traffic normalizes road traffic signals used by the cost estimator
// and delivery insights. Like weather, traffic is advisory: a provider
// failure degrades to a synthetic snapshot, never to an error.
package traffic

import (
	"context"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// Level represents the congestion level.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Snapshot represents traffic conditions at a location at fetch time.
type Snapshot struct {
	// Level is the congestion level.
	Level Level `json:"level"`

	// DelayMinutes is the expected additional travel time. Always >= 0.
	DelayMinutes int `json:"delay_minutes"`

	// Synthetic is true when the snapshot came from the fallback
	// generator rather than a live provider.
	Synthetic bool `json:"-"`
}

// Provider defines the interface for traffic data providers.
type Provider interface {
	// GetTraffic fetches current traffic conditions near a location.
	GetTraffic(ctx context.Context, loc geo.Coordinate) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}
