package routing

import (
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// NearestNeighborRoute orders delivery points into a visiting sequence using
// a greedy nearest-neighbor walk starting from the depot.
//
// The algorithm minimizes the immediate next leg at each step. It does not
// attempt global route optimization (e.g. exact TSP); the design prioritizes
// determinism and simplicity over optimality. When two points are
// equidistant from the current position, the one appearing earliest in the
// current remaining order wins, so identical inputs always produce identical
// routes.
//
// The result is a permutation of the input: same elements, same length, no
// duplicates. An empty input yields an empty (non-nil) result.
//
// Cost is O(n²) distance evaluations, which is acceptable for delivery batch
// sizes in the tens. Larger fleets would need a different construction
// heuristic, which would also change output ordering.
func NearestNeighborRoute(depot geo.Coordinate, points []DeliveryPoint) []DeliveryPoint {
	route := make([]DeliveryPoint, 0, len(points))
	if len(points) == 0 {
		return route
	}

	remaining := make([]DeliveryPoint, len(points))
	copy(remaining, points)

	current := depot

	for len(remaining) > 0 {
		nearest := 0
		nearestDist := geo.Distance(current, remaining[0].Coordinate)

		// Strict < keeps the earliest point on ties.
		for i := 1; i < len(remaining); i++ {
			if d := geo.Distance(current, remaining[i].Coordinate); d < nearestDist {
				nearest = i
				nearestDist = d
			}
		}

		next := remaining[nearest]
		route = append(route, next)
		current = next.Coordinate
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	return route
}

// TotalDistance returns the total length of the round trip
// depot -> route[0] -> ... -> route[n-1] -> depot in kilometers, including
// the closing leg back to the depot. An empty route has zero distance.
func TotalDistance(depot geo.Coordinate, route []DeliveryPoint) float64 {
	if len(route) == 0 {
		return 0
	}

	total := 0.0
	current := depot

	for _, p := range route {
		total += geo.Distance(current, p.Coordinate)
		current = p.Coordinate
	}

	return total + geo.Distance(current, depot)
}
