// Package api provides the HTTP API for the dispatch service.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dispatchroute/dispatchroute/internal/api/handler"
	"github.com/dispatchroute/dispatchroute/internal/api/middleware"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Dispatch    *dispatch.Service

	// ReadyCheck verifies hard dependencies for the readiness probe.
	ReadyCheck func(ctx context.Context) error
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "dispatchroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyCheck)
	routeHandler := handler.NewRouteHandler(cfg.Dispatch)
	driverHandler := handler.NewDriverHandler(cfg.Dispatch)
	depotHandler := handler.NewDepotHandler()
	shipmentHandler := handler.NewShipmentHandler(cfg.Dispatch)
	insightsHandler := handler.NewInsightsHandler(cfg.Dispatch)

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	trackingRateLimit := middleware.RateLimitByIP(middleware.TrackingRateLimit)   // 300 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Route endpoints - call external providers, strict rate limiting
		r.Route("/routes", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Post("/optimize", routeHandler.OptimizeRoute)
			r.Post("/estimate", routeHandler.EstimateRoute)
		})

		// Driver tracking - high-cadence position pings
		r.With(trackingRateLimit).Post("/drivers/location", driverHandler.UpdateLocation)

		// Depot metadata
		r.With(standardRateLimit).Get("/depots", depotHandler.ListDepots)

		// Shipments
		r.Route("/shipments", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", shipmentHandler.ListShipments)
			r.Post("/", shipmentHandler.CreateShipment)
			r.Get("/{trackingNumber}", shipmentHandler.GetShipment)
		})

		// Insights - calls external providers
		r.With(expensiveRateLimit).Get("/insights", insightsHandler.GetInsights)
	})

	return r
}
