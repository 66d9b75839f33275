package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dispatchroute/dispatchroute/internal/pricing"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
)

func TestCost_BaseFormula(t *testing.T) {
	// 15 + 10*5 = 65, no multipliers.
	assert.Equal(t, 65.0, pricing.Cost(10, traffic.LevelLow, "Clear"))
}

func TestCost_TrafficMultipliers(t *testing.T) {
	cases := []struct {
		level traffic.Level
		want  float64
	}{
		{traffic.LevelLow, 65.0},
		{traffic.LevelMedium, 74.75}, // 65 * 1.15
		{traffic.LevelHigh, 84.5},    // 65 * 1.3
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, pricing.Cost(10, tc.level, "Clear"), "level %s", tc.level)
	}
}

func TestCost_RainExactlyTwentyPercent(t *testing.T) {
	for _, level := range []traffic.Level{traffic.LevelLow, traffic.LevelMedium, traffic.LevelHigh} {
		dry := pricing.Cost(12.5, level, "Clear")
		wet := pricing.Cost(12.5, level, "Rain")
		assert.InDelta(t, dry*1.2, wet, 0.01, "level %s", level)
	}
}

func TestCost_RainMatchIsCaseInsensitiveSubstring(t *testing.T) {
	base := pricing.Cost(10, traffic.LevelLow, "Clear")

	for _, condition := range []string{"Rain", "rain", "light rain", "RAIN SHOWERS"} {
		assert.Greater(t, pricing.Cost(10, traffic.LevelLow, condition), base, "condition %q", condition)
	}

	// Thunderstorm without "rain" in the text takes no weather multiplier.
	assert.Equal(t, base, pricing.Cost(10, traffic.LevelLow, "Thunderstorm"))
}

func TestCost_MultipliersCompose(t *testing.T) {
	// (15 + 10*5) * 1.3 * 1.2 = 101.4
	assert.Equal(t, 101.4, pricing.Cost(10, traffic.LevelHigh, "Rain"))
}

func TestCost_MonotonicInDistance(t *testing.T) {
	prev := 0.0
	for km := 1.0; km <= 300; km += 7.5 {
		cost := pricing.Cost(km, traffic.LevelMedium, "Rain")
		assert.Greater(t, cost, prev, "distance %f", km)
		prev = cost
	}
}

func TestCost_RoundedToCurrencyPrecision(t *testing.T) {
	// 15 + 3.333*5 = 31.665 -> *1.15 = 36.41475
	cost := pricing.Cost(3.333, traffic.LevelMedium, "Clear")
	assert.Equal(t, 36.41, cost)
}

func TestAdjustedDuration(t *testing.T) {
	assert.Equal(t, 42.5, pricing.AdjustedDuration(30.5, 12))
	assert.Equal(t, 30.5, pricing.AdjustedDuration(30.5, 0))
}

func TestShouldRecalculate(t *testing.T) {
	assert.True(t, pricing.ShouldRecalculate(traffic.LevelHigh, 20))
	assert.False(t, pricing.ShouldRecalculate(traffic.LevelHigh, 10))
	assert.False(t, pricing.ShouldRecalculate(traffic.LevelHigh, 15)) // strictly greater
	assert.False(t, pricing.ShouldRecalculate(traffic.LevelMedium, 20))
	assert.False(t, pricing.ShouldRecalculate(traffic.LevelLow, 45))
}
