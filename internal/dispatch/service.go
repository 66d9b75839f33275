// Package dispatch orchestrates route planning, delivery estimates, and
// shipment tracking on top of the routing, traffic, weather, pricing, and
// insights packages.
package dispatch

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/internal/depot"
	"github.com/dispatchroute/dispatchroute/internal/insights"
	"github.com/dispatchroute/dispatchroute/internal/notify"
	"github.com/dispatchroute/dispatchroute/internal/pricing"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/internal/weather"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// planningSpeedKmh is the average speed assumed when sizing a multi-stop
// run. Matches the straight-line routing fallback.
const planningSpeedKmh = 50.0

// ServiceConfig holds the dependencies for the dispatch service.
type ServiceConfig struct {
	Routing   *routing.Service
	Traffic   *traffic.Service
	Weather   *weather.Service
	Shipments shipment.Repository
	Notifier  notify.Notifier
	Logger    zerolog.Logger

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service is the dispatch orchestrator.
type Service struct {
	routing   *routing.Service
	traffic   *traffic.Service
	weather   *weather.Service
	shipments shipment.Repository
	notifier  notify.Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a dispatch service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Service{
		routing:   cfg.Routing,
		traffic:   cfg.Traffic,
		weather:   cfg.Weather,
		shipments: cfg.Shipments,
		notifier:  notifier,
		logger:    cfg.Logger,
		now:       now,
	}
}

// RoutePlan is an optimized multi-stop run out of a city hub.
type RoutePlan struct {
	Depot          depot.Depot             `json:"depot"`
	Stops          []routing.DeliveryPoint `json:"optimized_stops"`
	TotalKm        float64                 `json:"total_distance_km"`
	EstimatedHours float64                 `json:"estimated_duration_hours"`

	// Skipped lists shipment IDs excluded for missing coordinates.
	Skipped []string `json:"skipped,omitempty"`
}

// PlanRoute orders the deliverable points into a single run starting and
// ending at the city hub. Points without coordinates are reported in
// Skipped rather than failing the whole plan.
func (s *Service) PlanRoute(ctx context.Context, city string, points []routing.DeliveryPoint) (*RoutePlan, error) {
	hub, err := depot.Get(city)
	if err != nil {
		return nil, fmt.Errorf("plan route for %q: %w", city, err)
	}

	deliverable := make([]routing.DeliveryPoint, 0, len(points))
	var skipped []string
	for _, p := range points {
		if p.Coordinate.Lat == 0 && p.Coordinate.Lon == 0 {
			skipped = append(skipped, p.ShipmentID)
			continue
		}
		deliverable = append(deliverable, p)
	}

	ordered := routing.NearestNeighborRoute(hub.Coordinate, deliverable)
	totalKm := routing.TotalDistance(hub.Coordinate, ordered)

	s.logger.Info().
		Str("city", city).
		Int("stops", len(ordered)).
		Int("skipped", len(skipped)).
		Float64("total_km", totalKm).
		Msg("planned delivery run")

	return &RoutePlan{
		Depot:          hub,
		Stops:          ordered,
		TotalKm:        round2(totalKm),
		EstimatedHours: round2(totalKm / planningSpeedKmh),
		Skipped:        skipped,
	}, nil
}

// Estimate is the full delivery quote for a single leg.
type Estimate struct {
	Leg     *routing.Leg         `json:"route"`
	Traffic *traffic.Snapshot    `json:"traffic"`
	Weather *weather.Observation `json:"weather"`

	Cost                    float64 `json:"estimated_cost"`
	AdjustedDurationMinutes float64 `json:"adjusted_duration_minutes"`
	ShouldRecalculate       bool    `json:"should_recalculate"`
}

// EstimateLeg quotes a delivery between two points under current
// conditions. Conditions are fetched fresh on every call; the traffic and
// weather services degrade to synthetic values rather than erroring, so an
// estimate is always produced.
func (s *Service) EstimateLeg(ctx context.Context, origin, dest geo.Coordinate) *Estimate {
	leg := s.routing.GetLeg(ctx, origin, dest)
	snap := s.traffic.GetTraffic(ctx, dest)
	obs := s.weather.GetWeather(ctx, dest)

	return &Estimate{
		Leg:                     leg,
		Traffic:                 snap,
		Weather:                 obs,
		Cost:                    pricing.Cost(leg.DistanceKm, snap.Level, obs.Description),
		AdjustedDurationMinutes: pricing.AdjustedDuration(leg.DurationMinutes, snap.DelayMinutes),
		ShouldRecalculate:       pricing.ShouldRecalculate(snap.Level, snap.DelayMinutes),
	}
}

// Insights builds a hub-to-hub delivery report between two cities.
func (s *Service) Insights(ctx context.Context, originCity, destCity string, packageWeightKg float64) (*insights.Report, error) {
	origin, err := depot.Get(originCity)
	if err != nil {
		return nil, fmt.Errorf("insights origin %q: %w", originCity, err)
	}
	dest, err := depot.Get(destCity)
	if err != nil {
		return nil, fmt.Errorf("insights destination %q: %w", destCity, err)
	}

	leg := s.routing.GetLeg(ctx, origin.Coordinate, dest.Coordinate)
	snap := s.traffic.GetTraffic(ctx, dest.Coordinate)
	obs := s.weather.GetWeather(ctx, dest.Coordinate)

	return insights.Build(leg, obs, snap, packageWeightKg), nil
}

// CreateShipment registers a new shipment. Inter-city is inferred when
// sender and recipient cities differ.
func (s *Service) CreateShipment(ctx context.Context, sender, recipient shipment.Party, pkg shipment.Package) (*shipment.Shipment, error) {
	dt := shipment.DeliveryInCity
	if sender.City != recipient.City {
		dt = shipment.DeliveryInterCity
	}

	sh := shipment.New(dt, sender, recipient, pkg)
	if err := s.shipments.Create(ctx, sh); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	s.logger.Info().
		Str("tracking_number", sh.TrackingNumber).
		Str("delivery_type", string(sh.DeliveryType)).
		Msg("shipment created")

	return sh, nil
}

// GetShipment retrieves a shipment by tracking number.
func (s *Service) GetShipment(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	return s.shipments.Get(ctx, trackingNumber)
}

// ListShipments returns all shipments, newest first.
func (s *Service) ListShipments(ctx context.Context) ([]*shipment.Shipment, error) {
	return s.shipments.List(ctx)
}

// LocationUpdateResult reports the effect of a driver position ping.
type LocationUpdateResult struct {
	TrackingNumber string          `json:"tracking_number"`
	Status         shipment.Status `json:"status"`
	StatusChanged  bool            `json:"status_changed"`
	Message        string          `json:"message,omitempty"`
	DistanceKm     float64         `json:"distance_to_destination_km"`
}

// HandleLocationUpdate applies a driver position ping to a shipment. At
// most one lifecycle transition happens per ping. The event is published
// regardless of whether the status changed; a publish failure is logged
// but does not fail the update, since the position was already persisted.
func (s *Service) HandleLocationUpdate(ctx context.Context, trackingNumber, driverID string, pos geo.Coordinate) (*LocationUpdateResult, error) {
	sh, err := s.shipments.Get(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	if sh.Recipient.Coordinate == nil {
		return nil, fmt.Errorf("shipment %s has no destination coordinate", trackingNumber)
	}
	dest := *sh.Recipient.Coordinate

	next, message, changed := shipment.NextStatus(sh.Status, pos, dest)
	if changed {
		now := s.now()
		if sh.AdvanceTo(next, message, now) {
			if sh.AssignedDriverID == "" {
				sh.AssignedDriverID = driverID
			}
			if err := s.shipments.Update(ctx, sh); err != nil {
				return nil, fmt.Errorf("persist status change: %w", err)
			}
		} else {
			// The engine proposed a move the lifecycle rejects. Treat as
			// a no-op rather than failing the ping.
			changed = false
			message = ""
		}
	}

	event := notify.LocationEvent{
		TrackingNumber: trackingNumber,
		DriverID:       driverID,
		Position:       pos,
		Status:         sh.Status,
		StatusChanged:  changed,
		Message:        message,
		Timestamp:      s.now(),
	}
	if err := s.notifier.PublishLocationUpdate(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("tracking_number", trackingNumber).
			Msg("failed to publish location event")
	}

	return &LocationUpdateResult{
		TrackingNumber: trackingNumber,
		Status:         sh.Status,
		StatusChanged:  changed,
		Message:        message,
		DistanceKm:     round2(geo.Distance(pos, dest)),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
