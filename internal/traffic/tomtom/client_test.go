package tomtom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

func TestClient_GetTraffic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "key=test-key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"flowSegmentData": {
				"currentSpeed": 20,
				"freeFlowSpeed": 60,
				"currentTravelTime": 1800,
				"freeFlowTravelTime": 600
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL})

	snap, err := client.GetTraffic(context.Background(), geo.Coordinate{Lat: 33.57, Lon: -7.62})
	require.NoError(t, err)

	assert.Equal(t, traffic.LevelHigh, snap.Level)
	assert.Equal(t, 20, snap.DelayMinutes)
}

func TestToSnapshot_Levels(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		free    float64
		want    traffic.Level
	}{
		{"free-flowing", 55, 60, traffic.LevelLow},
		{"slowing", 40, 60, traffic.LevelMedium},
		{"congested", 15, 60, traffic.LevelHigh},
		{"zero free flow", 0, 0, traffic.LevelLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := toSnapshot(&flowSegmentData{
				CurrentSpeed:  tc.current,
				FreeFlowSpeed: tc.free,
			})
			assert.Equal(t, tc.want, snap.Level)
		})
	}
}

func TestToSnapshot_DelayNeverNegative(t *testing.T) {
	snap := toSnapshot(&flowSegmentData{
		CurrentSpeed:       70,
		FreeFlowSpeed:      60,
		CurrentTravelTime:  500,
		FreeFlowTravelTime: 600,
	})
	assert.Equal(t, 0, snap.DelayMinutes)
}
