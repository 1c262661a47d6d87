// README: Vehicle lookup around a pickup point.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/matching"
	"smartride/internal/types"
)

type VehicleHandler struct {
	matching      *matching.Service
	defaultRadius float64
}

func NewVehicleHandler(svc *matching.Service, defaultRadiusM float64) *VehicleHandler {
	return &VehicleHandler{matching: svc, defaultRadius: defaultRadiusM}
}

type vehiclesResp struct {
	Vehicles []fleet.Vehicle `json:"vehicles"`
}

// Near lists vehicles within radius_m of lat/lng that run one of the route_id
// values, plus taxis when include_taxis=true.
func (h *VehicleHandler) Near(c *gin.Context) {
	p, ok := queryPoint(c, "origin")
	if !ok {
		return
	}
	radius, ok := queryRadius(c, h.defaultRadius)
	if !ok {
		return
	}
	includeTaxis := false
	if raw := c.Query("include_taxis"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeFieldError(c, "include_taxis", "include_taxis must be true or false")
			return
		}
		includeTaxis = v
	}
	var routeIDs []types.ID
	for _, id := range c.QueryArray("route_id") {
		routeIDs = append(routeIDs, types.ID(id))
	}

	vehicles, err := h.matching.VehiclesNear(c.Request.Context(), p, radius, routeIDs, includeTaxis)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, vehiclesResp{Vehicles: vehicles})
}
