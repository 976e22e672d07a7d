// README: Assignment handlers; driver accept/decline/complete responses.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/types"
)

type AssignmentHandler struct {
	assignments *assignment.Service
}

func NewAssignmentHandler(svc *assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{assignments: svc}
}

type respondReq struct {
	DriverID      string `json:"driver_id"`
	Action        string `json:"action"`
	DeclineReason string `json:"decline_reason"`
}

func (h *AssignmentHandler) Respond(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid assignment id")
		return
	}
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !isValidID(req.DriverID) {
		writeError(c, http.StatusBadRequest, "invalid driver_id")
		return
	}
	cmd := assignment.RespondCommand{
		AssignmentID:  types.ID(id),
		DriverID:      types.ID(req.DriverID),
		DeclineReason: req.DeclineReason,
	}

	switch req.Action {
	case "accept":
		if err := h.assignments.Accept(c.Request.Context(), cmd); err != nil {
			writeAssignmentError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"status": assignment.StatusAccepted})
	case "decline":
		replacement, err := h.assignments.Decline(c.Request.Context(), cmd)
		if err != nil {
			writeAssignmentError(c, err)
			return
		}
		resp := gin.H{"status": assignment.StatusDeclined, "reassigned": replacement != nil}
		if replacement != nil {
			resp["replacement_assignment_id"] = replacement.ID
			resp["replacement_driver_id"] = replacement.DriverID
		}
		writeJSON(c, http.StatusOK, resp)
	case "complete":
		if err := h.assignments.Complete(c.Request.Context(), cmd); err != nil {
			writeAssignmentError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"status": assignment.StatusCompleted})
	default:
		writeError(c, http.StatusBadRequest, "action must be accept, decline, or complete")
	}
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid assignment id")
		return
	}
	a, err := h.assignments.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeAssignmentError(c, err)
		return
	}
	resp := gin.H{
		"assignment_id":     a.ID,
		"driver_id":         a.DriverID,
		"route_id":          a.RouteID,
		"status":            a.Status,
		"explanation":       a.Explanation,
		"assignment_reason": a.AssignmentReason,
	}
	if a.ReassignmentBonus > 0 {
		resp["reassignment_bonus"] = a.ReassignmentBonus
	}
	writeJSON(c, http.StatusOK, resp)
}
