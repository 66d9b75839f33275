package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dispatchroute/dispatchroute/internal/api/models"
	"github.com/dispatchroute/dispatchroute/internal/api/response"
	"github.com/dispatchroute/dispatchroute/internal/dispatch"
	"github.com/dispatchroute/dispatchroute/internal/shipment"
	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// ShipmentHandler handles shipment endpoints.
type ShipmentHandler struct {
	dispatch *dispatch.Service
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(d *dispatch.Service) *ShipmentHandler {
	return &ShipmentHandler{dispatch: d}
}

// CreateShipment handles POST /v1/shipments - register a new shipment.
func (h *ShipmentHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var input models.ShipmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid shipment request", errs)
		return
	}

	sh, err := h.dispatch.CreateShipment(r.Context(),
		toParty(input.Sender),
		toParty(input.Recipient),
		shipment.Package{
			WeightKg: input.Package.WeightKg,
			Type:     input.Package.Type,
			Urgency:  input.Package.Urgency,
		},
	)
	if err != nil {
		if errors.Is(err, shipment.ErrDuplicateTracking) {
			response.Conflict(w, r, "tracking number collision, retry the request")
			return
		}
		response.InternalError(w, r, "failed to create shipment")
		return
	}

	location := fmt.Sprintf("/v1/shipments/%s", sh.TrackingNumber)
	response.Created(w, r, location, sh)
}

// GetShipment handles GET /v1/shipments/{trackingNumber}.
func (h *ShipmentHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		response.BadRequest(w, r, "trackingNumber is required", nil)
		return
	}

	sh, err := h.dispatch.GetShipment(r.Context(), trackingNumber)
	if err != nil {
		if errors.Is(err, shipment.ErrShipmentNotFound) {
			response.NotFound(w, r, "no shipment with tracking number "+trackingNumber)
			return
		}
		response.InternalError(w, r, "failed to load shipment")
		return
	}

	response.JSON(w, r, http.StatusOK, sh)
}

// ListShipments handles GET /v1/shipments - list all shipments, newest first.
func (h *ShipmentHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	all, err := h.dispatch.ListShipments(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list shipments")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"items": all,
		"count": len(all),
	})
}

func toParty(p models.PartyInput) shipment.Party {
	party := shipment.Party{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		City:    p.City,
	}
	if p.Point != nil {
		party.Coordinate = &geo.Coordinate{Lat: p.Point.Lat, Lon: p.Point.Lon}
	}
	return party
}
