// Package main provides the entrypoint for the dispatch API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/internal/api"
	"github.com/dispatchroute/dispatchroute/internal/api/middleware"
	"github.com/dispatchroute/dispatchroute/internal/database"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
	"github.com/dispatchroute/dispatchroute/internal/notify"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/internal/routing/openrouteservice"
	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/internal/telemetry"
	"github.com/dispatchroute/dispatchroute/internal/traffic"
	"github.com/dispatchroute/dispatchroute/internal/traffic/tomtom"
	"github.com/dispatchroute/dispatchroute/internal/weather"
	"github.com/dispatchroute/dispatchroute/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "dispatchroute-api"

	// Load .env for local development; ignored when absent.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting dispatch API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Shipment storage: PostgreSQL by default, in-memory for local runs
	// without a database (DB_DISABLED=true).
	var shipmentRepo shipment.Repository
	var readyCheck func(ctx context.Context) error

	if os.Getenv("DB_DISABLED") == "true" {
		shipmentRepo = shipment.NewInMemoryRepository()
		log.Warn().Msg("database disabled, shipments held in memory")
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply database schema")
		}

		shipmentRepo = shipment.NewPostgresRepository(pool)
		readyCheck = pool.Ping
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	// Routing provider: OpenRouteService when an API key is set, otherwise
	// straight-line estimates.
	var routeProvider routing.Provider
	if key := os.Getenv("ORS_API_KEY"); key != "" {
		routeProvider = openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey: key,
			Logger: log,
		})
		log.Info().Msg("OpenRouteService routing provider initialized")
	} else {
		log.Warn().Msg("ORS_API_KEY not set, serving straight-line route estimates")
	}

	// Traffic provider: TomTom when an API key is set, otherwise synthetic
	// hour-based conditions.
	var trafficProvider traffic.Provider
	if key := os.Getenv("TOMTOM_API_KEY"); key != "" {
		trafficProvider = tomtom.NewClient(tomtom.ClientConfig{
			APIKey: key,
			Logger: log,
		})
		log.Info().Msg("TomTom traffic provider initialized")
	} else {
		log.Warn().Msg("TOMTOM_API_KEY not set, serving synthetic traffic conditions")
	}

	// Weather provider: OpenWeatherMap when an API key is set.
	var weatherProvider weather.Provider
	if key := os.Getenv("OWM_API_KEY"); key != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: key,
			Logger: log,
		})
		log.Info().Msg("OpenWeatherMap weather provider initialized")
	} else {
		log.Warn().Msg("OWM_API_KEY not set, serving synthetic weather observations")
	}

	// Tracking event publisher: Pub/Sub when a project is configured.
	var notifier notify.Notifier = notify.NopNotifier{}
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topicName := os.Getenv("PUBSUB_TRACKING_TOPIC")
		if topicName == "" {
			topicName = "shipment-tracking-events"
		}

		publisher, err := notify.NewPubSubPublisher(ctx, notify.PubSubConfig{
			ProjectID: projectID,
			TopicName: topicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub publisher")
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()

		notifier = publisher
		log.Info().
			Str("topic", topicName).
			Msg("pubsub tracking publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set, tracking events are discarded")
	}

	dispatchService := dispatch.NewService(dispatch.ServiceConfig{
		Routing:   routing.NewService(routing.ServiceConfig{Provider: routeProvider, Logger: log}),
		Traffic:   traffic.NewService(traffic.ServiceConfig{Provider: trafficProvider, Logger: log}),
		Weather:   weather.NewService(weather.ServiceConfig{Provider: weatherProvider, Logger: log}),
		Shipments: shipmentRepo,
		Notifier:  notifier,
		Logger:    log,
	})
	log.Info().Msg("dispatch service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Dispatch:    dispatchService,
		ReadyCheck:  readyCheck,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
