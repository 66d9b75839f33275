// Package openrouteservice provides a route provider backed by the
// OpenRouteService directions API.
package openrouteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/internal/provider/resilience"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// drivingProfile is the ORS profile for delivery vehicles.
	drivingProfile = "driving-car"
)

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenRouteService client.
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

// GetRoute computes a driving route between two points.
func (c *Client) GetRoute(ctx context.Context, origin, dest geo.Coordinate) (*routing.Leg, error) {
	// ORS uses [lon, lat] order (GeoJSON).
	orsReq := orsRequest{
		Coordinates: [][]float64{
			{origin.Lon, origin.Lat},
			{dest.Lon, dest.Lat},
		},
		Geometry: true,
		Units:    "m",
	}

	body, err := json.Marshal(orsReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, drivingProfile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		return nil, routing.ErrNoRouteFound
	default:
		if resp.StatusCode >= 500 {
			return nil, routing.ErrProviderUnavailable
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var orsResp orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&orsResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(orsResp.Routes) == 0 {
		return nil, routing.ErrNoRouteFound
	}

	route := orsResp.Routes[0]
	return &routing.Leg{
		DistanceKm:       route.Summary.Distance / 1000,
		DurationMinutes:  route.Summary.Duration / 60,
		GeometryPolyline: route.Geometry,
		Provider:         ProviderName,
	}, nil
}

// orsRequest mirrors the ORS directions request body.
type orsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Geometry    bool        `json:"geometry"`
	Units       string      `json:"units"`
}

// orsResponse mirrors the ORS directions response.
type orsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
		Geometry string `json:"geometry"` // encoded polyline
	} `json:"routes"`
}
