package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dispatchroute/dispatchroute/internal/api/models"
	"github.com/dispatchroute/dispatchroute/internal/api/response"
	"github.com/dispatchroute/dispatchroute/internal/depot"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
)

// InsightsHandler handles the delivery insights endpoint.
type InsightsHandler struct {
	dispatch *dispatch.Service
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(d *dispatch.Service) *InsightsHandler {
	return &InsightsHandler{dispatch: d}
}

// GetInsights handles GET /v1/insights?origin=X&destination=Y&weight_kg=Z -
// hub-to-hub delivery report between two cities.
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")

	var errs []models.FieldError
	if origin == "" {
		errs = append(errs, models.FieldError{Field: "origin", Message: "origin is required", Code: "required"})
	}
	if destination == "" {
		errs = append(errs, models.FieldError{Field: "destination", Message: "destination is required", Code: "required"})
	}

	weightKg := 1.0
	if raw := r.URL.Query().Get("weight_kg"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			errs = append(errs, models.FieldError{Field: "weight_kg", Message: "weight must be a positive number", Code: "out_of_range"})
		} else {
			weightKg = parsed
		}
	}

	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid insights request", errs)
		return
	}

	report, err := h.dispatch.Insights(r.Context(), origin, destination, weightKg)
	if err != nil {
		if errors.Is(err, depot.ErrUnknownCity) {
			response.NotFound(w, r, err.Error())
			return
		}
		response.InternalError(w, r, "failed to build insights")
		return
	}

	response.JSON(w, r, http.StatusOK, report)
}
