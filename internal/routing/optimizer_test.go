package routing

import (
	"math"
	"testing"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

var casablancaHub = geo.Coordinate{Lat: 33.6091, Lon: -7.5372}

func point(id string, lat, lon float64) DeliveryPoint {
	return DeliveryPoint{ShipmentID: id, Coordinate: geo.Coordinate{Lat: lat, Lon: lon}}
}

func TestNearestNeighborRoute_EmptyInput(t *testing.T) {
	route := NearestNeighborRoute(casablancaHub, nil)
	if route == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(route) != 0 {
		t.Fatalf("expected empty route, got %d stops", len(route))
	}
	if d := TotalDistance(casablancaHub, route); d != 0 {
		t.Errorf("expected zero distance for empty route, got %f", d)
	}
}

func TestNearestNeighborRoute_SinglePoint(t *testing.T) {
	p := point("S1", 33.60, -7.50)
	route := NearestNeighborRoute(casablancaHub, []DeliveryPoint{p})

	if len(route) != 1 || route[0].ShipmentID != "S1" {
		t.Fatalf("expected trivial single-stop route, got %+v", route)
	}

	// Round trip is out and back along the same leg.
	leg := geo.Distance(casablancaHub, p.Coordinate)
	total := TotalDistance(casablancaHub, route)
	if math.Abs(total-2*leg) > 1e-9 {
		t.Errorf("expected round trip %f, got %f", 2*leg, total)
	}
}

// Scenario from the Casablanca dispatch data: P3 sits closest to the hub and
// must be visited first.
func TestNearestNeighborRoute_GreedyOrder(t *testing.T) {
	p1 := point("P1", 33.60, -7.50)
	p2 := point("P2", 33.65, -7.60)
	p3 := point("P3", 33.61, -7.53)

	route := NearestNeighborRoute(casablancaHub, []DeliveryPoint{p1, p2, p3})

	if len(route) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(route))
	}
	if route[0].ShipmentID != "P3" {
		t.Errorf("expected P3 first (closest to depot), got %s", route[0].ShipmentID)
	}

	// Total equals the explicit sum of the four legs.
	want := geo.Distance(casablancaHub, route[0].Coordinate) +
		geo.Distance(route[0].Coordinate, route[1].Coordinate) +
		geo.Distance(route[1].Coordinate, route[2].Coordinate) +
		geo.Distance(route[2].Coordinate, casablancaHub)

	if got := TotalDistance(casablancaHub, route); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected total %f, got %f", want, got)
	}
}

func TestNearestNeighborRoute_IsPermutation(t *testing.T) {
	points := []DeliveryPoint{
		point("A", 33.59, -7.60),
		point("B", 33.57, -7.65),
		point("C", 33.62, -7.48),
		point("D", 33.55, -7.55),
		point("E", 33.64, -7.52),
	}

	route := NearestNeighborRoute(casablancaHub, points)

	if len(route) != len(points) {
		t.Fatalf("expected %d stops, got %d", len(points), len(route))
	}

	seen := make(map[string]int)
	for _, p := range route {
		seen[p.ShipmentID]++
	}
	for _, p := range points {
		if seen[p.ShipmentID] != 1 {
			t.Errorf("point %s visited %d times", p.ShipmentID, seen[p.ShipmentID])
		}
	}
}

func TestNearestNeighborRoute_TieBreakIsStable(t *testing.T) {
	// Two points mirrored across the depot latitude: identical distance.
	a := point("A", 33.62, -7.5372)
	b := point("B", 33.5982, -7.5372)

	route := NearestNeighborRoute(casablancaHub, []DeliveryPoint{a, b})
	if route[0].ShipmentID != "A" {
		t.Errorf("tie must keep input order: expected A first, got %s", route[0].ShipmentID)
	}

	// Reversed input keeps the (new) first entrant on top.
	route = NearestNeighborRoute(casablancaHub, []DeliveryPoint{b, a})
	if route[0].ShipmentID != "B" {
		t.Errorf("tie must keep input order: expected B first, got %s", route[0].ShipmentID)
	}
}

func TestNearestNeighborRoute_DoesNotMutateInput(t *testing.T) {
	points := []DeliveryPoint{
		point("A", 33.59, -7.60),
		point("B", 33.57, -7.65),
		point("C", 33.62, -7.48),
	}
	original := make([]DeliveryPoint, len(points))
	copy(original, points)

	NearestNeighborRoute(casablancaHub, points)

	for i := range points {
		if points[i] != original[i] {
			t.Fatalf("input slice mutated at %d: %+v != %+v", i, points[i], original[i])
		}
	}
}

func TestTotalDistance_AtLeastLongestLeg(t *testing.T) {
	points := []DeliveryPoint{
		point("A", 34.0209, -6.8498), // Rabat, far from the hub
		point("B", 33.61, -7.53),
	}

	route := NearestNeighborRoute(casablancaHub, points)
	total := TotalDistance(casablancaHub, route)

	maxLeg := 0.0
	for _, p := range points {
		if d := geo.Distance(casablancaHub, p.Coordinate); d > maxLeg {
			maxLeg = d
		}
	}

	if total < maxLeg {
		t.Errorf("total %f below longest single leg %f", total, maxLeg)
	}

	// Last stop differs from the depot, so the closing leg is nonzero.
	last := route[len(route)-1]
	open := total - geo.Distance(last.Coordinate, casablancaHub)
	if !(total > open) {
		t.Error("expected a nonzero closing leg back to the depot")
	}
}
