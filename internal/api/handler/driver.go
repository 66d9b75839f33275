package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dispatchroute/dispatchroute/internal/api/models"
	"github.com/dispatchroute/dispatchroute/internal/api/response"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// DriverHandler handles driver tracking endpoints.
type DriverHandler struct {
	dispatch *dispatch.Service
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(d *dispatch.Service) *DriverHandler {
	return &DriverHandler{dispatch: d}
}

// UpdateLocation handles POST /v1/drivers/location - apply a driver
// position ping to a shipment.
func (h *DriverHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var input models.LocationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid location update", errs)
		return
	}

	result, err := h.dispatch.HandleLocationUpdate(r.Context(),
		input.TrackingNumber,
		input.DriverID,
		geo.Coordinate{Lat: input.Position.Lat, Lon: input.Position.Lon},
	)
	if err != nil {
		if errors.Is(err, shipment.ErrShipmentNotFound) {
			response.NotFound(w, r, "no shipment with tracking number "+input.TrackingNumber)
			return
		}
		response.InternalError(w, r, "failed to process location update")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
