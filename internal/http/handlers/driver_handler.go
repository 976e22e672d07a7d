// README: Driver handlers; fleet listing, stats, and location updates.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/types"
)

type DriverHandler struct {
	drivers   *driver.Service
	locations *location.Service
}

func NewDriverHandler(drivers *driver.Service, locations *location.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers, locations: locations}
}

type driverResp struct {
	DriverID     types.ID            `json:"driver_id"`
	EmployeeID   string              `json:"employee_id"`
	Name         string              `json:"name"`
	FatigueScore float64             `json:"fatigue_score"`
	HealthStatus driver.HealthStatus `json:"health_status"`
	Credits      int                 `json:"credits"`
	BonusCredits int                 `json:"bonus_credits"`
	IsAvailable  bool                `json:"is_available"`
}

func (h *DriverHandler) List(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		writeError(c, http.StatusBadRequest, "missing location_id")
		return
	}
	drivers, err := h.drivers.ListAvailable(c.Request.Context(), locationID)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	out := make([]driverResp, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, driverResp{
			DriverID:     d.ID,
			EmployeeID:   d.EmployeeID,
			Name:         d.Name,
			FatigueScore: d.FatigueScore,
			HealthStatus: d.HealthStatus,
			Credits:      d.Credits,
			BonusCredits: d.BonusCredits,
			IsAvailable:  d.IsAvailable,
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"drivers": out})
}

func (h *DriverHandler) Stats(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		writeError(c, http.StatusBadRequest, "missing location_id")
		return
	}
	stats, err := h.drivers.Stats(c.Request.Context(), locationID)
	if err != nil {
		writeDriverError(c, err)
		return
	}
	attention := make([]gin.H, 0, len(stats.NeedsAttention))
	for _, item := range stats.NeedsAttention {
		attention = append(attention, gin.H{
			"driver_id":     item.DriverID,
			"name":          item.Name,
			"fatigue":       item.Fatigue,
			"health_status": item.HealthStatus,
		})
	}
	writeJSON(c, http.StatusOK, gin.H{
		"total_drivers":     stats.TotalDrivers,
		"available_drivers": stats.AvailableDrivers,
		"avg_fatigue":       stats.AvgFatigue,
		"needs_attention":   attention,
	})
}

type updateLocationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	var req updateLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if err := h.locations.Update(c.Request.Context(), types.ID(id), types.Point{Lat: req.Lat, Lng: req.Lng}); err != nil {
		if errors.Is(err, location.ErrTelemetryUnavailable) {
			writeError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
