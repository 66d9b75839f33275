package openrouteservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

var (
	casablanca = geo.Coordinate{Lat: 33.5731, Lon: -7.6163}
	rabat      = geo.Coordinate{Lat: 34.0209, Lon: -6.8498}
)

func TestClient_GetRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var req orsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Coordinates, 2)
		// ORS expects [lon, lat].
		assert.InDelta(t, -7.6163, req.Coordinates[0][0], 1e-6)
		assert.InDelta(t, 33.5731, req.Coordinates[0][1], 1e-6)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"routes": [{
				"summary": {"distance": 87000, "duration": 3600},
				"geometry": "_p~iF~ps|U_ulLnnqC"
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL})

	leg, err := client.GetRoute(context.Background(), casablanca, rabat)
	require.NoError(t, err)

	assert.InDelta(t, 87.0, leg.DistanceKm, 1e-9)
	assert.InDelta(t, 60.0, leg.DurationMinutes, 1e-9)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC", leg.GeometryPolyline)
	assert.Equal(t, ProviderName, leg.Provider)
	assert.False(t, leg.Fallback)
}

func TestClient_GetRoute_EmptyRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"routes": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.GetRoute(context.Background(), casablanca, rabat)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}

func TestClient_GetRoute_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.GetRoute(context.Background(), casablanca, rabat)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}
