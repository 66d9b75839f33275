package handler

import (
	"net/http"

	"github.com/dispatchroute/dispatchroute/internal/api/response"
	"github.com/dispatchroute/dispatchroute/internal/depot"
)

// DepotHandler handles depot metadata endpoints.
type DepotHandler struct{}

// NewDepotHandler creates a new DepotHandler.
func NewDepotHandler() *DepotHandler {
	return &DepotHandler{}
}

// ListDepots handles GET /v1/depots - list all warehouse hubs.
func (h *DepotHandler) ListDepots(w http.ResponseWriter, r *http.Request) {
	all := depot.All()
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"items": all,
		"count": len(all),
	})
}
