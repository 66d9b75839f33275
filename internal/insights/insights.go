// Package insights derives handling warnings and a vehicle recommendation
// for a single shipment from route, weather, and traffic signals.
package insights

import (
	"math"

	"github.com/dispatchroute/dispatchroute/internal/pricing"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/internal/weather"
)

// Thresholds for handling warnings.
const (
	// HighTemperatureCelsius is the refrigeration-care threshold.
	HighTemperatureCelsius = 35.0

	// HighWindKmh is the secure-packaging threshold.
	HighWindKmh = 15.0

	// HeavyPackageKg is the weight above which a van is recommended.
	HeavyPackageKg = 10.0
)

// VehicleType is the recommended vehicle class for a shipment.
type VehicleType string

const (
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleVan        VehicleType = "van"
)

// Report combines the conditions relevant to a single shipment.
type Report struct {
	Leg     *routing.Leg         `json:"route"`
	Weather *weather.Observation `json:"weather"`
	Traffic *traffic.Snapshot    `json:"traffic"`

	// EstimatedDeliveryMinutes is the leg duration plus the traffic
	// delay, rounded to whole minutes.
	EstimatedDeliveryMinutes int `json:"estimated_delivery_minutes"`

	// Warnings lists handling precautions. Zero, one, or all may apply.
	Warnings []string `json:"warnings"`

	// RecommendedVehicle is sized from the package weight.
	RecommendedVehicle VehicleType `json:"recommended_vehicle"`
}

// Build assembles a delivery report. The warning checks are independent
// booleans, not mutually exclusive.
func Build(leg *routing.Leg, obs *weather.Observation, snap *traffic.Snapshot, packageWeightKg float64) *Report {
	warnings := []string{}

	if obs.Temperature > HighTemperatureCelsius {
		warnings = append(warnings, "High temperature - refrigerated items need extra care")
	}
	if obs.Condition == weather.ConditionRain || obs.Condition == weather.ConditionThunderstorm {
		warnings = append(warnings, "Adverse weather - fragile items need extra protection")
	}
	if obs.WindSpeed > HighWindKmh {
		warnings = append(warnings, "High winds - secure packaging required")
	}

	vehicle := VehicleMotorcycle
	if packageWeightKg > HeavyPackageKg {
		vehicle = VehicleVan
	}

	return &Report{
		Leg:                      leg,
		Weather:                  obs,
		Traffic:                  snap,
		EstimatedDeliveryMinutes: int(math.Round(pricing.AdjustedDuration(leg.DurationMinutes, snap.DelayMinutes))),
		Warnings:                 warnings,
		RecommendedVehicle:       vehicle,
	}
}
