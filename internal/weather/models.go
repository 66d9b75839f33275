// Package weather normalizes weather signals used by the cost estimator and
// delivery insights. Conditions are advisory: a provider failure degrades to
// a synthetic observation, never to an error.
package weather

import (
	"context"
	"time"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// Condition represents the general weather condition.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionUnknown      Condition = "Unknown"
)

// Observation represents weather at a location at fetch time.
type Observation struct {
	// Temperature in Celsius.
	Temperature float64 `json:"temperature"`

	// Condition is the general condition (Clear, Rain, ...).
	Condition Condition `json:"condition"`

	// Description is the provider's human-readable description.
	Description string `json:"description"`

	// WindSpeed in km/h.
	WindSpeed float64 `json:"wind_speed"`

	// Synthetic is true when the observation came from the fallback
	// generator rather than a live provider.
	Synthetic bool `json:"-"`

	FetchedAt time.Time `json:"-"`
}

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrentWeather fetches current weather for a location.
	GetCurrentWeather(ctx context.Context, loc geo.Coordinate) (*Observation, error)

	// Name returns the provider name for logging.
	Name() string
}
