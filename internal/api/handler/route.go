package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dispatchroute/dispatchroute/internal/api/models"
	"github.com/dispatchroute/dispatchroute/internal/api/response"
	"github.com/dispatchroute/dispatchroute/internal/depot"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
	"github.com/dispatchroute/dispatchroute/internal/routing"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// RouteHandler handles route planning and estimation endpoints.
type RouteHandler struct {
	dispatch *dispatch.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(d *dispatch.Service) *RouteHandler {
	return &RouteHandler{dispatch: d}
}

// OptimizeRoute handles POST /v1/routes/optimize - order delivery stops
// into a single run out of a city hub.
func (h *RouteHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteOptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid optimize request", errs)
		return
	}

	points := make([]routing.DeliveryPoint, 0, len(input.Stops))
	for _, stop := range input.Stops {
		p := routing.DeliveryPoint{
			ShipmentID:    stop.ShipmentID,
			Address:       stop.Address,
			RecipientName: stop.RecipientName,
		}
		if stop.Point != nil {
			p.Coordinate = geo.Coordinate{Lat: stop.Point.Lat, Lon: stop.Point.Lon}
		}
		points = append(points, p)
	}

	plan, err := h.dispatch.PlanRoute(r.Context(), input.City, points)
	if err != nil {
		if errors.Is(err, depot.ErrUnknownCity) {
			response.NotFound(w, r, "no depot for city: "+input.City)
			return
		}
		response.InternalError(w, r, "failed to plan route")
		return
	}

	response.JSON(w, r, http.StatusOK, plan)
}

// EstimateRoute handles POST /v1/routes/estimate - quote a single delivery
// leg under current traffic and weather.
func (h *RouteHandler) EstimateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid estimate request", errs)
		return
	}

	est := h.dispatch.EstimateLeg(r.Context(),
		geo.Coordinate{Lat: input.Origin.Lat, Lon: input.Origin.Lon},
		geo.Coordinate{Lat: input.Destination.Lat, Lon: input.Destination.Lon},
	)

	response.JSON(w, r, http.StatusOK, est)
}
