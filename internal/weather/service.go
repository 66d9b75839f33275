package weather

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// fallbackPalette is the fixed set of plausible observations served when no
// provider is configured or the provider fails.
var fallbackPalette = []Observation{
	{Temperature: 22, Condition: ConditionClear, Description: "clear sky", WindSpeed: 8},
	{Temperature: 19, Condition: ConditionClouds, Description: "scattered clouds", WindSpeed: 12},
	{Temperature: 17, Condition: ConditionRain, Description: "light rain", WindSpeed: 18},
	{Temperature: 26, Condition: ConditionClear, Description: "sunny", WindSpeed: 6},
	{Temperature: 21, Condition: ConditionMist, Description: "morning mist", WindSpeed: 4},
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the live weather provider. May be nil, in which case
	// every observation is synthetic.
	Provider Provider

	// Rand is the randomness source for fallback selection. Injectable
	// so tests can pin a seed. Defaults to a time-seeded source.
	Rand *rand.Rand

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fetches weather observations, degrading to a synthetic fallback on
// any provider failure. Observations are fetched fresh per request and never
// cached: the core treats conditions as an immutable snapshot per call.
type Service struct {
	provider Provider
	logger   zerolog.Logger

	// rand is shared across concurrent requests and math/rand.Rand is
	// not goroutine-safe, so mu guards every draw.
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // non-cryptographic fallback jitter
	}

	return &Service{
		provider: cfg.Provider,
		rand:     rnd,
		logger:   cfg.Logger,
	}
}

// GetWeather returns the current weather for a location. It never returns an
// error: conditions are an enhancement, not load-bearing for correctness.
func (s *Service) GetWeather(ctx context.Context, loc geo.Coordinate) *Observation {
	if s.provider == nil {
		return s.synthetic()
	}

	obs, err := s.provider.GetCurrentWeather(ctx, loc)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", loc.Lat).
			Float64("lon", loc.Lon).
			Str("provider", s.provider.Name()).
			Msg("weather provider failed, serving synthetic observation")
		return s.synthetic()
	}

	return obs
}

func (s *Service) synthetic() *Observation {
	s.mu.Lock()
	idx := s.rand.Intn(len(fallbackPalette))
	s.mu.Unlock()

	obs := fallbackPalette[idx]
	obs.Synthetic = true
	obs.FetchedAt = time.Now()
	return &obs
}
