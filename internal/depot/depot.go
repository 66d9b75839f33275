// Package depot holds the static table of warehouse hubs anchoring
// multi-stop delivery runs. The table is fixed for the process lifetime.
package depot

import (
	"errors"
	"sort"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// ErrUnknownCity is returned when no hub exists for the requested city.
var ErrUnknownCity = errors.New("no depot for city")

// Depot is a warehouse hub in a major city.
type Depot struct {
	City       string         `json:"city"`
	Name       string         `json:"name"`
	Address    string         `json:"address"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Capacity   int            `json:"capacity"`
}

// hubs is the static table of known hubs. Coordinates are the loading dock
// positions, not city centers.
var hubs = map[string]Depot{
	"Casablanca": {
		City:       "Casablanca",
		Name:       "Casablanca Hub",
		Address:    "Zone Industrielle Ain Sebaa",
		Coordinate: geo.Coordinate{Lat: 33.6091, Lon: -7.5372},
		Capacity:   5000,
	},
	"Rabat": {
		City:       "Rabat",
		Name:       "Rabat Hub",
		Address:    "Zone Industrielle Technopolis",
		Coordinate: geo.Coordinate{Lat: 34.0132, Lon: -6.8326},
		Capacity:   3000,
	},
	"Marrakech": {
		City:       "Marrakech",
		Name:       "Marrakech Hub",
		Address:    "Route de Safi",
		Coordinate: geo.Coordinate{Lat: 31.6369, Lon: -8.0089},
		Capacity:   2500,
	},
	"Fès": {
		City:       "Fès",
		Name:       "Fès Hub",
		Address:    "Route de Sefrou",
		Coordinate: geo.Coordinate{Lat: 34.0372, Lon: -5.0158},
		Capacity:   2000,
	},
	"Tanger": {
		City:       "Tanger",
		Name:       "Tanger Hub",
		Address:    "Zone Franche",
		Coordinate: geo.Coordinate{Lat: 35.7473, Lon: -5.8363},
		Capacity:   2000,
	},
	"Agadir": {
		City:       "Agadir",
		Name:       "Agadir Hub",
		Address:    "Zone Industrielle Tassila",
		Coordinate: geo.Coordinate{Lat: 30.4202, Lon: -9.5982},
		Capacity:   1500,
	},
}

// Get returns the hub for a city.
func Get(city string) (Depot, error) {
	d, ok := hubs[city]
	if !ok {
		return Depot{}, ErrUnknownCity
	}
	return d, nil
}

// All returns every known hub, sorted by city name.
func All() []Depot {
	out := make([]Depot, 0, len(hubs))
	for _, d := range hubs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}
