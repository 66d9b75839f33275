package weather_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchroute/dispatchroute/internal/weather"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// mockProvider is a mock weather provider for testing.
type mockProvider struct {
	observation *weather.Observation
	err         error
	calls       int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GetCurrentWeather(_ context.Context, _ geo.Coordinate) (*weather.Observation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.observation, nil
}

var casablanca = geo.Coordinate{Lat: 33.5731, Lon: -7.6163}

func TestService_GetWeather_UsesProvider(t *testing.T) {
	provider := &mockProvider{
		observation: &weather.Observation{
			Temperature: 28,
			Condition:   weather.ConditionClear,
			Description: "clear sky",
			WindSpeed:   10,
		},
	}

	svc := weather.NewService(weather.ServiceConfig{Provider: provider})

	obs := svc.GetWeather(context.Background(), casablanca)
	require.NotNil(t, obs)
	assert.Equal(t, weather.ConditionClear, obs.Condition)
	assert.Equal(t, 28.0, obs.Temperature)
	assert.False(t, obs.Synthetic)
}

func TestService_GetWeather_DegradesOnProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Rand:     rand.New(rand.NewSource(1)),
	})

	obs := svc.GetWeather(context.Background(), casablanca)
	require.NotNil(t, obs)
	assert.True(t, obs.Synthetic)
	assert.NotEmpty(t, obs.Condition)
	assert.Equal(t, 1, provider.calls)
}

func TestService_GetWeather_NoProviderIsSynthetic(t *testing.T) {
	svc := weather.NewService(weather.ServiceConfig{
		Rand: rand.New(rand.NewSource(42)),
	})

	obs := svc.GetWeather(context.Background(), casablanca)
	require.NotNil(t, obs)
	assert.True(t, obs.Synthetic)
}

func TestService_GetWeather_SyntheticConcurrentRequests(t *testing.T) {
	svc := weather.NewService(weather.ServiceConfig{
		Rand: rand.New(rand.NewSource(1)),
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				obs := svc.GetWeather(context.Background(), casablanca)
				assert.True(t, obs.Synthetic)
				assert.NotEmpty(t, obs.Condition)
			}
		}()
	}
	wg.Wait()
}

func TestService_GetWeather_DeterministicForSeed(t *testing.T) {
	first := weather.NewService(weather.ServiceConfig{Rand: rand.New(rand.NewSource(7))}).
		GetWeather(context.Background(), casablanca)
	second := weather.NewService(weather.ServiceConfig{Rand: rand.New(rand.NewSource(7))}).
		GetWeather(context.Background(), casablanca)

	assert.Equal(t, first.Condition, second.Condition)
	assert.Equal(t, first.Temperature, second.Temperature)
}
