// README: Dispatch handler; triggers a matching cycle for a location.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairdispatch/internal/modules/dispatch"
)

type DispatchHandler struct {
	dispatch *dispatch.Service
}

func NewDispatchHandler(svc *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{dispatch: svc}
}

func (h *DispatchHandler) Run(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		writeError(c, http.StatusBadRequest, "missing location_id")
		return
	}
	summary, err := h.dispatch.RunForLocation(c.Request.Context(), locationID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "dispatch cycle failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"location_id":         summary.LocationID,
		"assignments_created": summary.AssignmentsCreated,
		"unmatched_drivers":   summary.UnmatchedDrivers,
		"unmatched_routes":    summary.UnmatchedRoutes,
	})
}
