// README: Route catalog handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartride/internal/modules/matching"
	"smartride/internal/modules/routing"
)

type RouteHandler struct {
	matching      *matching.Service
	defaultRadius float64
}

func NewRouteHandler(svc *matching.Service, defaultRadiusM float64) *RouteHandler {
	return &RouteHandler{matching: svc, defaultRadius: defaultRadiusM}
}

type routesResp struct {
	Routes []routing.Route `json:"routes"`
}

func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.matching.Routes(c.Request.Context())
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, routesResp{Routes: routes})
}

// Near lists routes passing within radius_m of lat/lng.
func (h *RouteHandler) Near(c *gin.Context) {
	p, ok := queryPoint(c, "destination")
	if !ok {
		return
	}
	radius, ok := queryRadius(c, h.defaultRadius)
	if !ok {
		return
	}
	routes, err := h.matching.RoutesNear(c.Request.Context(), p, radius)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, routesResp{Routes: routes})
}
