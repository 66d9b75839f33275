// Package notify publishes shipment tracking events for downstream
// consumers such as the customer notification pipeline.
package notify

import (
	"context"
	"time"

	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// LocationEvent is emitted on every driver position ping. StatusChanged is
// set when the ping advanced the shipment lifecycle.
type LocationEvent struct {
	TrackingNumber string          `json:"tracking_number"`
	DriverID       string          `json:"driver_id"`
	Position       geo.Coordinate  `json:"position"`
	Status         shipment.Status `json:"status"`
	StatusChanged  bool            `json:"status_changed"`
	Message        string          `json:"message,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Notifier publishes tracking events.
type Notifier interface {
	PublishLocationUpdate(ctx context.Context, event LocationEvent) error
}

// NopNotifier discards all events. Used when no event pipeline is
// configured, such as local development.
type NopNotifier struct{}

// PublishLocationUpdate discards the event.
func (NopNotifier) PublishLocationUpdate(context.Context, LocationEvent) error { return nil }

var _ Notifier = NopNotifier{}
