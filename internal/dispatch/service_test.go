package dispatch

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchroute/dispatchroute/internal/depot"
	"github.com/dispatchroute/dispatchroute/internal/notify"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/internal/weather"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

type recordingNotifier struct {
	events []notify.LocationEvent
	err    error
}

func (n *recordingNotifier) PublishLocationUpdate(_ context.Context, e notify.LocationEvent) error {
	n.events = append(n.events, e)
	return n.err
}

func newTestService(t *testing.T, notifier notify.Notifier) (*Service, *shipment.InMemoryRepository) {
	t.Helper()

	logger := zerolog.Nop()
	repo := shipment.NewInMemoryRepository()

	svc := NewService(ServiceConfig{
		Routing: routing.NewService(routing.ServiceConfig{Logger: logger}),
		Traffic: traffic.NewService(traffic.ServiceConfig{
			Rand:   rand.New(rand.NewSource(1)),
			Now:    func() time.Time { return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) },
			Logger: logger,
		}),
		Weather: weather.NewService(weather.ServiceConfig{
			Rand:   rand.New(rand.NewSource(1)),
			Logger: logger,
		}),
		Shipments: repo,
		Notifier:  notifier,
		Logger:    logger,
	})
	return svc, repo
}

func TestPlanRoute_OrdersStopsAndSkipsUnlocated(t *testing.T) {
	svc, _ := newTestService(t, nil)

	points := []routing.DeliveryPoint{
		{ShipmentID: "P1", Coordinate: geo.Coordinate{Lat: 33.60, Lon: -7.50}},
		{ShipmentID: "P2", Coordinate: geo.Coordinate{Lat: 33.65, Lon: -7.60}},
		{ShipmentID: "NOLOC"},
		{ShipmentID: "P3", Coordinate: geo.Coordinate{Lat: 33.61, Lon: -7.53}},
	}

	plan, err := svc.PlanRoute(context.Background(), "Casablanca", points)
	require.NoError(t, err)

	require.Len(t, plan.Stops, 3)
	assert.Equal(t, "P3", plan.Stops[0].ShipmentID)
	assert.Equal(t, []string{"NOLOC"}, plan.Skipped)
	assert.Equal(t, "Casablanca Hub", plan.Depot.Name)
	assert.Greater(t, plan.TotalKm, 0.0)
	assert.InDelta(t, plan.TotalKm/50.0, plan.EstimatedHours, 0.01)
}

func TestPlanRoute_UnknownCity(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.PlanRoute(context.Background(), "Essaouira", nil)
	assert.ErrorIs(t, err, depot.ErrUnknownCity)
}

func TestEstimateLeg_ConsistentQuote(t *testing.T) {
	svc, _ := newTestService(t, nil)

	origin := geo.Coordinate{Lat: 33.6091, Lon: -7.5372}
	dest := geo.Coordinate{Lat: 34.0132, Lon: -6.8326}

	est := svc.EstimateLeg(context.Background(), origin, dest)

	require.NotNil(t, est.Leg)
	require.NotNil(t, est.Traffic)
	require.NotNil(t, est.Weather)

	// No providers configured: straight-line leg and synthetic conditions.
	assert.True(t, est.Leg.Fallback)
	assert.True(t, est.Traffic.Synthetic)
	assert.True(t, est.Weather.Synthetic)

	assert.InDelta(t, est.Leg.DurationMinutes+float64(est.Traffic.DelayMinutes), est.AdjustedDurationMinutes, 1e-9)
	assert.Greater(t, est.Cost, 15.0)
}

func TestInsights_HubToHub(t *testing.T) {
	svc, _ := newTestService(t, nil)

	report, err := svc.Insights(context.Background(), "Casablanca", "Rabat", 12)
	require.NoError(t, err)

	assert.InDelta(t, 84.0, report.Leg.DistanceKm, 5.0)
	assert.Equal(t, "van", string(report.RecommendedVehicle))
	assert.Greater(t, report.EstimatedDeliveryMinutes, 0)

	_, err = svc.Insights(context.Background(), "Casablanca", "Oujda", 1)
	assert.ErrorIs(t, err, depot.ErrUnknownCity)
}

func TestCreateShipment_InfersDeliveryType(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	local, err := svc.CreateShipment(ctx,
		shipment.Party{Name: "A", City: "Casablanca"},
		shipment.Party{Name: "B", City: "Casablanca"},
		shipment.Package{WeightKg: 2},
	)
	require.NoError(t, err)
	assert.Equal(t, shipment.DeliveryInCity, local.DeliveryType)
	assert.Equal(t, shipment.StatusAssigned, local.Status)

	intercity, err := svc.CreateShipment(ctx,
		shipment.Party{Name: "A", City: "Casablanca"},
		shipment.Party{Name: "B", City: "Rabat"},
		shipment.Package{WeightKg: 2},
	)
	require.NoError(t, err)
	assert.Equal(t, shipment.DeliveryInterCity, intercity.DeliveryType)
	assert.Equal(t, shipment.StatusPickupScheduled, intercity.Status)

	got, err := svc.GetShipment(ctx, local.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, local.TrackingNumber, got.TrackingNumber)

	all, err := svc.ListShipments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHandleLocationUpdate_AdvancesAndPublishes(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, repo := newTestService(t, notifier)
	ctx := context.Background()

	dest := geo.Coordinate{Lat: 33.5731, Lon: -7.5898}
	sh, err := svc.CreateShipment(ctx,
		shipment.Party{Name: "A", City: "Casablanca"},
		shipment.Party{Name: "B", City: "Casablanca", Coordinate: &dest},
		shipment.Package{WeightKg: 2},
	)
	require.NoError(t, err)
	require.True(t, sh.AdvanceTo(shipment.StatusPickupInProgress, "", time.Now()))
	require.NoError(t, repo.Update(ctx, sh))

	// 6 km north of the destination: no transition yet.
	far := geo.Coordinate{Lat: dest.Lat + 6.0/111.32, Lon: dest.Lon}
	res, err := svc.HandleLocationUpdate(ctx, sh.TrackingNumber, "driver-7", far)
	require.NoError(t, err)
	assert.False(t, res.StatusChanged)
	assert.Equal(t, shipment.StatusPickupInProgress, res.Status)
	assert.InDelta(t, 6.0, res.DistanceKm, 0.1)

	// 4.9 km out: picked up.
	near := geo.Coordinate{Lat: dest.Lat + 4.9/111.32, Lon: dest.Lon}
	res, err = svc.HandleLocationUpdate(ctx, sh.TrackingNumber, "driver-7", near)
	require.NoError(t, err)
	assert.True(t, res.StatusChanged)
	assert.Equal(t, shipment.StatusInTransit, res.Status)
	assert.Equal(t, "Colis récupéré, en route vers la destination", res.Message)

	stored, err := repo.Get(ctx, sh.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusInTransit, stored.Status)
	assert.Equal(t, "driver-7", stored.AssignedDriverID)
	assert.Len(t, stored.History, 3)

	// Every ping publishes, changed or not.
	require.Len(t, notifier.events, 2)
	assert.False(t, notifier.events[0].StatusChanged)
	assert.True(t, notifier.events[1].StatusChanged)
	assert.Equal(t, sh.TrackingNumber, notifier.events[1].TrackingNumber)
}

func TestHandleLocationUpdate_PublishFailureDoesNotFailPing(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc, repo := newTestService(t, notifier)
	ctx := context.Background()

	dest := geo.Coordinate{Lat: 33.5731, Lon: -7.5898}
	sh, err := svc.CreateShipment(ctx,
		shipment.Party{Name: "A", City: "Casablanca"},
		shipment.Party{Name: "B", City: "Casablanca", Coordinate: &dest},
		shipment.Package{WeightKg: 2},
	)
	require.NoError(t, err)
	require.True(t, sh.AdvanceTo(shipment.StatusPickupInProgress, "", time.Now()))
	require.NoError(t, repo.Update(ctx, sh))

	res, err := svc.HandleLocationUpdate(ctx, sh.TrackingNumber, "driver-7", dest)
	require.NoError(t, err)
	assert.True(t, res.StatusChanged)
}

func TestHandleLocationUpdate_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.HandleLocationUpdate(ctx, "CTM0000000000", "d", geo.Coordinate{})
	assert.ErrorIs(t, err, shipment.ErrShipmentNotFound)

	sh, err := svc.CreateShipment(ctx,
		shipment.Party{Name: "A", City: "Casablanca"},
		shipment.Party{Name: "B", City: "Casablanca"},
		shipment.Package{WeightKg: 2},
	)
	require.NoError(t, err)

	_, err = svc.HandleLocationUpdate(ctx, sh.TrackingNumber, "d", geo.Coordinate{})
	assert.Error(t, err)
}
