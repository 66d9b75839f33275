// Package geo provides geographic primitives shared across the dispatch core.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle calculations.
const EarthRadiusKm = 6371.0

// Coordinate represents a geographic point in decimal degrees (WGS84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the great-circle distance between two coordinates in
// kilometers, using the haversine formula.
//
// No range checking is performed: callers may pass noisy GPS fixes, and an
// out-of-range pair still yields a well-defined (if physically meaningless)
// result rather than an error.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}
