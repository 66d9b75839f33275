package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
	"github.com/dispatchroute/dispatchroute/pkg/polyline"
)

// mockLegProvider is a mock single-leg provider for testing.
type mockLegProvider struct {
	leg   *Leg
	err   error
	calls int
}

func (m *mockLegProvider) Name() string { return "mock" }

func (m *mockLegProvider) GetRoute(_ context.Context, _, _ geo.Coordinate) (*Leg, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.leg, nil
}

var (
	origin = geo.Coordinate{Lat: 33.5731, Lon: -7.6163}
	dest   = geo.Coordinate{Lat: 33.5892, Lon: -7.6031}
)

func TestService_GetLeg_UsesProvider(t *testing.T) {
	provider := &mockLegProvider{
		leg: &Leg{DistanceKm: 3.4, DurationMinutes: 9, GeometryPolyline: "abc", Provider: "mock"},
	}
	svc := NewService(ServiceConfig{Provider: provider})

	leg := svc.GetLeg(context.Background(), origin, dest)
	if leg.Provider != "mock" || leg.DistanceKm != 3.4 {
		t.Errorf("expected provider leg, got %+v", leg)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestService_GetLeg_FallsBackOnError(t *testing.T) {
	provider := &mockLegProvider{err: errors.New("timeout")}
	svc := NewService(ServiceConfig{Provider: provider})

	leg := svc.GetLeg(context.Background(), origin, dest)
	if !leg.Fallback {
		t.Error("expected fallback leg on provider error")
	}

	wantDistance := geo.Distance(origin, dest)
	if math.Abs(leg.DistanceKm-wantDistance) > 1e-9 {
		t.Errorf("expected straight-line distance %f, got %f", wantDistance, leg.DistanceKm)
	}
}

func TestService_GetLeg_NilProviderIsStraightLine(t *testing.T) {
	svc := NewService(ServiceConfig{})

	leg := svc.GetLeg(context.Background(), origin, dest)
	if !leg.Fallback {
		t.Error("expected fallback leg without a provider")
	}

	// Geometry must decode to exactly the two endpoints.
	coords := polyline.Decode(leg.GeometryPolyline)
	if len(coords) != 2 {
		t.Fatalf("expected two-point geometry, got %d points", len(coords))
	}
	if math.Abs(coords[0].Lat-origin.Lat) > 1e-5 || math.Abs(coords[1].Lat-dest.Lat) > 1e-5 {
		t.Errorf("geometry endpoints do not match leg endpoints: %+v", coords)
	}
}

func TestService_GetLeg_FillsMissingGeometry(t *testing.T) {
	provider := &mockLegProvider{
		leg: &Leg{DistanceKm: 5, DurationMinutes: 10, Provider: "mock"},
	}
	svc := NewService(ServiceConfig{Provider: provider})

	leg := svc.GetLeg(context.Background(), origin, dest)
	if leg.GeometryPolyline == "" {
		t.Error("expected two-point geometry to be filled in")
	}
}

func TestStraightLineProvider_Duration(t *testing.T) {
	provider := NewStraightLineProvider()

	leg, err := provider.GetRoute(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 km/h average speed.
	wantMinutes := leg.DistanceKm / 50 * 60
	if math.Abs(leg.DurationMinutes-wantMinutes) > 1e-9 {
		t.Errorf("expected %f minutes, got %f", wantMinutes, leg.DurationMinutes)
	}
}
