// README: Route handlers for create-and-grade and listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

type RouteHandler struct {
	routes *route.Service
}

func NewRouteHandler(svc *route.Service) *RouteHandler {
	return &RouteHandler{routes: svc}
}

type createRouteReq struct {
	Description       string  `json:"description"`
	Area              string  `json:"area"`
	LocationID        string  `json:"location_id"`
	StartLat          float64 `json:"start_lat"`
	StartLng          float64 `json:"start_lng"`
	EndLat            float64 `json:"end_lat"`
	EndLng            float64 `json:"end_lng"`
	PackageCount      int     `json:"package_count"`
	WeightKg          float64 `json:"weight_kg"`
	HasElevator       bool    `json:"has_elevator"`
	TrafficLevel      float64 `json:"traffic_level"`
	ApartmentDensity  float64 `json:"apartment_density"`
	WalkingDistanceKm float64 `json:"walking_distance_km"`
	StairsCount       int     `json:"stairs_count"`
	ParkingDifficulty float64 `json:"parking_difficulty"`
}

type routeResp struct {
	RouteID      types.ID    `json:"route_id"`
	Description  string      `json:"description"`
	Area         string      `json:"area"`
	Grade        route.Grade `json:"grade"`
	GradeReason  string      `json:"grade_reason"`
	RouteScore   int         `json:"route_score"`
	RouteCredits int         `json:"route_credits"`
	PackageCount int         `json:"package_count"`
	IsAssigned   bool        `json:"is_assigned"`
}

func toRouteResp(r *route.Route) routeResp {
	return routeResp{
		RouteID:      r.ID,
		Description:  r.Description,
		Area:         r.Area,
		Grade:        r.Grade,
		GradeReason:  r.GradeReason,
		RouteScore:   r.RouteScore,
		RouteCredits: r.RouteCredits,
		PackageCount: r.PackageCount,
		IsAssigned:   r.IsAssigned,
	}
}

func (h *RouteHandler) Create(c *gin.Context) {
	var req createRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.LocationID == "" {
		writeError(c, http.StatusBadRequest, "missing location_id")
		return
	}
	r := &route.Route{
		Description:       req.Description,
		Area:              req.Area,
		LocationID:        req.LocationID,
		Start:             types.Point{Lat: req.StartLat, Lng: req.StartLng},
		End:               types.Point{Lat: req.EndLat, Lng: req.EndLng},
		PackageCount:      req.PackageCount,
		WeightKg:          req.WeightKg,
		HasElevator:       req.HasElevator,
		TrafficLevel:      req.TrafficLevel,
		ApartmentDensity:  req.ApartmentDensity,
		WalkingDistanceKm: req.WalkingDistanceKm,
		StairsCount:       req.StairsCount,
		ParkingDifficulty: req.ParkingDifficulty,
	}
	if err := h.routes.CreateGraded(c.Request.Context(), r); err != nil {
		writeRouteError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toRouteResp(r))
}

func (h *RouteHandler) List(c *gin.Context) {
	locationID := c.Query("location_id")
	if locationID == "" {
		writeError(c, http.StatusBadRequest, "missing location_id")
		return
	}
	routes, err := h.routes.ListUnassigned(c.Request.Context(), locationID)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	out := make([]routeResp, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteResp(r))
	}
	writeJSON(c, http.StatusOK, gin.H{"routes": out})
}
