// Package main provides a driver movement simulator. It fetches a shipment,
// computes the leg from sender to recipient, then walks the route geometry
// posting location updates so the tracking lifecycle can be exercised
// end to end against a running API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
	"github.com/dispatchroute/dispatchroute/pkg/polyline"
)

// gpsJitterDeg approximates consumer GPS noise, roughly ±10 m.
const gpsJitterDeg = 0.0001

type shipmentResponse struct {
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	Sender         struct {
		Coordinate *geo.Coordinate `json:"coordinate"`
	} `json:"sender"`
	Recipient struct {
		Coordinate *geo.Coordinate `json:"coordinate"`
	} `json:"recipient"`
}

type estimateResponse struct {
	Leg struct {
		DistanceKm float64 `json:"distance_km"`
		Geometry   string  `json:"geometry"`
	} `json:"route"`
}

type locationResult struct {
	Status        string  `json:"status"`
	StatusChanged bool    `json:"status_changed"`
	Message       string  `json:"message"`
	DistanceKm    float64 `json:"distance_to_destination_km"`
}

func main() {
	_ = godotenv.Load()

	var (
		apiBase        = flag.String("api", envOrDefault("API_BASE_URL", "http://localhost:8080"), "dispatch API base URL")
		trackingNumber = flag.String("tracking", "", "tracking number of the shipment to drive (required)")
		driverID       = flag.String("driver", "DRV001", "driver identifier")
		interval       = flag.Duration("interval", 3*time.Second, "delay between position updates")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	if *trackingNumber == "" {
		log.Fatal().Msg("-tracking is required")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	sh, err := fetchShipment(client, *apiBase, *trackingNumber)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch shipment")
	}
	if sh.Sender.Coordinate == nil || sh.Recipient.Coordinate == nil {
		log.Fatal().Msg("shipment has no sender or recipient coordinates")
	}

	points, err := fetchRouteGeometry(client, *apiBase, *sh.Sender.Coordinate, *sh.Recipient.Coordinate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compute route")
	}

	log.Info().
		Str("tracking_number", sh.TrackingNumber).
		Str("driver_id", *driverID).
		Str("status", sh.Status).
		Int("route_points", len(points)).
		Msg("starting driver simulation")

	rnd := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation jitter

	for i, p := range points {
		pos := geo.Coordinate{
			Lat: p.Lat + (rnd.Float64()*2-1)*gpsJitterDeg,
			Lon: p.Lon + (rnd.Float64()*2-1)*gpsJitterDeg,
		}

		result, err := postLocation(client, *apiBase, *trackingNumber, *driverID, pos)
		if err != nil {
			log.Error().Err(err).Msg("location update failed")
			break
		}

		event := log.Info().
			Int("point", i+1).
			Int("total", len(points)).
			Float64("lat", pos.Lat).
			Float64("lon", pos.Lon).
			Float64("distance_km", result.DistanceKm).
			Str("status", result.Status)
		if result.StatusChanged {
			event = event.Str("message", result.Message)
		}
		event.Msg("position reported")

		if result.Status == "delivered" {
			break
		}
		time.Sleep(*interval)
	}

	log.Info().Msg("driver simulation completed")
}

func fetchShipment(client *http.Client, apiBase, trackingNumber string) (*shipmentResponse, error) {
	resp, err := client.Get(apiBase + "/v1/shipments/" + trackingNumber)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shipment lookup returned %d", resp.StatusCode)
	}

	var sh shipmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

func fetchRouteGeometry(client *http.Client, apiBase string, origin, dest geo.Coordinate) ([]geo.Coordinate, error) {
	body, err := json.Marshal(map[string]interface{}{
		"origin":      origin,
		"destination": dest,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(apiBase+"/v1/routes/estimate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimate returned %d", resp.StatusCode)
	}

	var est estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&est); err != nil {
		return nil, err
	}

	points := polyline.Decode(est.Leg.Geometry)
	if len(points) == 0 {
		return nil, fmt.Errorf("route has no geometry")
	}
	return densify(points, 20), nil
}

// densify subdivides long segments so sparse geometry, typically the
// two-point straight line served without a routing provider, still walks
// through the proximity radii around the destination.
func densify(points []geo.Coordinate, minPoints int) []geo.Coordinate {
	if len(points) >= minPoints || len(points) < 2 {
		return points
	}

	perSegment := (minPoints-1)/(len(points)-1) + 1
	out := make([]geo.Coordinate, 0, (len(points)-1)*perSegment+1)
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		for step := 0; step < perSegment; step++ {
			t := float64(step) / float64(perSegment)
			out = append(out, geo.Coordinate{
				Lat: a.Lat + (b.Lat-a.Lat)*t,
				Lon: a.Lon + (b.Lon-a.Lon)*t,
			})
		}
	}
	return append(out, points[len(points)-1])
}

func postLocation(client *http.Client, apiBase, trackingNumber, driverID string, pos geo.Coordinate) (*locationResult, error) {
	body, err := json.Marshal(map[string]interface{}{
		"tracking_number": trackingNumber,
		"driver_id":       driverID,
		"position":        map[string]float64{"lat": pos.Lat, "lon": pos.Lon},
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(apiBase+"/v1/drivers/location", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location update returned %d", resp.StatusCode)
	}

	var result locationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
