// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairdispatch/internal/http/handlers"
	"fairdispatch/internal/http/middleware"
	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/dispatch"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/modules/route"
)

type RouterDeps struct {
	Routes      *route.Service
	Dispatch    *dispatch.Service
	Assignments *assignment.Service
	Drivers     *driver.Service
	Locations   *location.Service
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	routeHandler := handlers.NewRouteHandler(deps.Routes)
	r.POST("/api/routes", routeHandler.Create)
	r.GET("/api/routes", routeHandler.List)

	dispatchHandler := handlers.NewDispatchHandler(deps.Dispatch)
	r.POST("/api/dispatch/run", dispatchHandler.Run)

	assignmentHandler := handlers.NewAssignmentHandler(deps.Assignments)
	r.POST("/api/assignments/:id/respond", assignmentHandler.Respond)
	r.GET("/api/assignments/:id", assignmentHandler.Get)

	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Locations)
	r.GET("/api/drivers", driverHandler.List)
	r.GET("/api/drivers/stats", driverHandler.Stats)
	r.PUT("/api/drivers/:id/location", driverHandler.UpdateLocation)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
