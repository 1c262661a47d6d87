// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartride/internal/http/handlers"
	"smartride/internal/http/middleware"
	"smartride/internal/modules/matching"
)

type RouterDeps struct {
	Matching *matching.Service
	// Geocoder is optional; without it destination_address is rejected.
	Geocoder       handlers.Geocoder
	DefaultRadiusM float64
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logger), middleware.Recovery(logger))

	matchHandler := handlers.NewMatchHandler(deps.Matching, deps.Geocoder, deps.DefaultRadiusM, logger)
	r.POST("/api/match", matchHandler.Match)

	routeHandler := handlers.NewRouteHandler(deps.Matching, deps.DefaultRadiusM)
	r.GET("/api/routes", routeHandler.List)
	r.GET("/api/routes/near", routeHandler.Near)

	vehicleHandler := handlers.NewVehicleHandler(deps.Matching, deps.DefaultRadiusM)
	r.GET("/api/vehicles/near", vehicleHandler.Near)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
