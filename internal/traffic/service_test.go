package traffic_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

type mockProvider struct {
	snapshot *traffic.Snapshot
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GetTraffic(_ context.Context, _ geo.Coordinate) (*traffic.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

var rabat = geo.Coordinate{Lat: 34.0209, Lon: -6.8498}

func fixedHour(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 2, hour, 30, 0, 0, time.UTC)
	}
}

func TestService_GetTraffic_UsesProvider(t *testing.T) {
	provider := &mockProvider{
		snapshot: &traffic.Snapshot{Level: traffic.LevelHigh, DelayMinutes: 22},
	}

	svc := traffic.NewService(traffic.ServiceConfig{Provider: provider})

	snap := svc.GetTraffic(context.Background(), rabat)
	require.NotNil(t, snap)
	assert.Equal(t, traffic.LevelHigh, snap.Level)
	assert.Equal(t, 22, snap.DelayMinutes)
	assert.False(t, snap.Synthetic)
}

func TestService_GetTraffic_SyntheticRushHour(t *testing.T) {
	for _, hour := range []int{7, 8, 9, 17, 18, 19} {
		svc := traffic.NewService(traffic.ServiceConfig{
			Now:  fixedHour(hour),
			Rand: rand.New(rand.NewSource(1)),
		})

		snap := svc.GetTraffic(context.Background(), rabat)
		require.NotNil(t, snap, "hour %d", hour)
		assert.True(t, snap.Synthetic)
		assert.Contains(t, []traffic.Level{traffic.LevelHigh, traffic.LevelMedium}, snap.Level, "hour %d", hour)
		assert.GreaterOrEqual(t, snap.DelayMinutes, 10, "hour %d", hour)
		assert.LessOrEqual(t, snap.DelayMinutes, 25, "hour %d", hour)
	}
}

func TestService_GetTraffic_SyntheticNight(t *testing.T) {
	for _, hour := range []int{22, 23, 0, 3, 6} {
		svc := traffic.NewService(traffic.ServiceConfig{
			Now:  fixedHour(hour),
			Rand: rand.New(rand.NewSource(1)),
		})

		snap := svc.GetTraffic(context.Background(), rabat)
		assert.Equal(t, traffic.LevelLow, snap.Level, "hour %d", hour)
		assert.GreaterOrEqual(t, snap.DelayMinutes, 0, "hour %d", hour)
		assert.LessOrEqual(t, snap.DelayMinutes, 3, "hour %d", hour)
	}
}

func TestService_GetTraffic_SyntheticDaytime(t *testing.T) {
	for _, hour := range []int{10, 13, 16, 20} {
		svc := traffic.NewService(traffic.ServiceConfig{
			Now:  fixedHour(hour),
			Rand: rand.New(rand.NewSource(1)),
		})

		snap := svc.GetTraffic(context.Background(), rabat)
		assert.Contains(t, []traffic.Level{traffic.LevelLow, traffic.LevelMedium}, snap.Level, "hour %d", hour)
		assert.GreaterOrEqual(t, snap.DelayMinutes, 3, "hour %d", hour)
		assert.LessOrEqual(t, snap.DelayMinutes, 12, "hour %d", hour)
	}
}

func TestService_GetTraffic_DegradesOnProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}

	svc := traffic.NewService(traffic.ServiceConfig{
		Provider: provider,
		Now:      fixedHour(8),
		Rand:     rand.New(rand.NewSource(1)),
	})

	snap := svc.GetTraffic(context.Background(), rabat)
	require.NotNil(t, snap)
	assert.True(t, snap.Synthetic)
}

func TestService_GetTraffic_SyntheticConcurrentRequests(t *testing.T) {
	svc := traffic.NewService(traffic.ServiceConfig{
		Now:  fixedHour(8),
		Rand: rand.New(rand.NewSource(1)),
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := svc.GetTraffic(context.Background(), rabat)
				assert.True(t, snap.Synthetic)
				assert.GreaterOrEqual(t, snap.DelayMinutes, 10)
				assert.LessOrEqual(t, snap.DelayMinutes, 25)
			}
		}()
	}
	wg.Wait()
}

func TestService_GetTraffic_DeterministicForSeedAndHour(t *testing.T) {
	build := func() *traffic.Snapshot {
		svc := traffic.NewService(traffic.ServiceConfig{
			Now:  fixedHour(14),
			Rand: rand.New(rand.NewSource(99)),
		})
		return svc.GetTraffic(context.Background(), rabat)
	}

	first := build()
	second := build()
	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.DelayMinutes, second.DelayMinutes)
}
