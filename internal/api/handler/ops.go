// Package handler provides HTTP handlers for the dispatch API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dispatchroute/dispatchroute/internal/api/models"
	"github.com/dispatchroute/dispatchroute/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string

	// readyCheck verifies hard dependencies, typically the database. May
	// be nil when the API runs without persistence.
	readyCheck func(ctx context.Context) error
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, readyCheck func(ctx context.Context) error) *OpsHandler {
	return &OpsHandler{
		version:    version,
		buildTime:  buildTime,
		readyCheck: readyCheck,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.readyCheck(ctx); err != nil {
			health := models.Health{
				Status: models.HealthStatusFail,
				Time:   models.Timestamp(time.Now()),
				Details: map[string]interface{}{
					"error": err.Error(),
				},
			}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}
