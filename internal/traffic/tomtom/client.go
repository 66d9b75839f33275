// Package tomtom provides a traffic provider backed by the TomTom flow
// segment data API.
package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/internal/provider/resilience"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

const (
	// ProviderName identifies this traffic provider.
	ProviderName = "tomtom"

	// DefaultBaseURL is the TomTom traffic API base URL.
	DefaultBaseURL = "https://api.tomtom.com/traffic/services/4"
)

// ClientConfig holds configuration for the TomTom client.
type ClientConfig struct {
	// APIKey is the TomTom API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a TomTom flow segment data client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new TomTom client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetTraffic fetches flow data for the road segment nearest to the location.
func (c *Client) GetTraffic(ctx context.Context, loc geo.Coordinate) (*traffic.Snapshot, error) {
	url := fmt.Sprintf("%s/flowSegmentData/absolute/10/json?point=%.6f,%.6f&key=%s",
		c.baseURL, loc.Lat, loc.Lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var ttResp flowSegmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&ttResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return toSnapshot(&ttResp.FlowSegmentData), nil
}

// toSnapshot derives a congestion level from the ratio of current to
// free-flow speed, and a delay from the travel time difference.
func toSnapshot(data *flowSegmentData) *traffic.Snapshot {
	level := traffic.LevelLow
	if data.FreeFlowSpeed > 0 {
		ratio := data.CurrentSpeed / data.FreeFlowSpeed
		switch {
		case ratio < 0.5:
			level = traffic.LevelHigh
		case ratio < 0.8:
			level = traffic.LevelMedium
		}
	}

	delayMinutes := (data.CurrentTravelTime - data.FreeFlowTravelTime) / 60
	if delayMinutes < 0 {
		delayMinutes = 0
	}

	return &traffic.Snapshot{
		Level:        level,
		DelayMinutes: delayMinutes,
	}
}

// flowSegmentResponse mirrors the TomTom flow segment payload.
type flowSegmentResponse struct {
	FlowSegmentData flowSegmentData `json:"flowSegmentData"`
}

type flowSegmentData struct {
	CurrentSpeed       float64 `json:"currentSpeed"`
	FreeFlowSpeed      float64 `json:"freeFlowSpeed"`
	CurrentTravelTime  int     `json:"currentTravelTime"`
	FreeFlowTravelTime int     `json:"freeFlowTravelTime"`
}
