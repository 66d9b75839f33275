// Package pricing computes delivery cost and duration estimates from
// distance, traffic, and weather signals.
package pricing

import (
	"math"
	"strings"

	"github.com/dispatchroute/dispatchroute/internal/traffic"
)

// Tariff constants in MAD.
const (
	// BaseRate is the flat pickup fee.
	BaseRate = 15.0

	// PerKmRate is the per-kilometer rate.
	PerKmRate = 5.0
)

// Traffic multipliers by congestion level.
const (
	multiplierTrafficMedium = 1.15
	multiplierTrafficHigh   = 1.3

	// multiplierRain applies when the weather condition mentions rain.
	multiplierRain = 1.2
)

// recalculateDelayThresholdMinutes is the delay beyond which a held estimate
// is considered stale under high traffic.
const recalculateDelayThresholdMinutes = 15

// Cost returns the delivery cost for a leg. Traffic and weather multipliers
// compose multiplicatively, so a high-traffic rainy leg costs more than
// either penalty alone. The result is rounded to 2 decimals.
func Cost(distanceKm float64, level traffic.Level, weatherCondition string) float64 {
	cost := BaseRate + distanceKm*PerKmRate

	switch level {
	case traffic.LevelHigh:
		cost *= multiplierTrafficHigh
	case traffic.LevelMedium:
		cost *= multiplierTrafficMedium
	}

	if strings.Contains(strings.ToLower(weatherCondition), "rain") {
		cost *= multiplierRain
	}

	return math.Round(cost*100) / 100
}

// AdjustedDuration adds the traffic delay to a base travel time. The delay
// is additive minutes from the traffic snapshot, not a multiplier.
func AdjustedDuration(baseMinutes float64, delayMinutes int) float64 {
	return baseMinutes + float64(delayMinutes)
}

// ShouldRecalculate reports whether a currently-held route and cost estimate
// should be refreshed by the caller. The estimator itself never recomputes;
// this is only a staleness signal.
func ShouldRecalculate(level traffic.Level, delayMinutes int) bool {
	return level == traffic.LevelHigh && delayMinutes > recalculateDelayThresholdMinutes
}
