// README: Match handler: resolves the destination, then ranks candidates.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartride/internal/modules/matching"
	"smartride/internal/types"
)

// Geocoder resolves free-text addresses. It is optional.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

type MatchHandler struct {
	matching      *matching.Service
	geocoder      Geocoder
	defaultRadius float64
	logger        *zap.Logger
}

func NewMatchHandler(svc *matching.Service, geocoder Geocoder, defaultRadiusM float64, logger *zap.Logger) *MatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchHandler{matching: svc, geocoder: geocoder, defaultRadius: defaultRadiusM, logger: logger}
}

type matchReq struct {
	Origin             *types.Point `json:"origin"`
	Destination        *types.Point `json:"destination"`
	DestinationStop    string       `json:"destination_stop"`
	DestinationAddress string       `json:"destination_address"`
	RadiusM            *float64     `json:"radius_m"`
	IncludeTaxis       bool         `json:"include_taxis"`
}

type matchResp struct {
	Destination types.Point                 `json:"destination"`
	Candidates  []matching.CandidateVehicle `json:"candidates"`
}

func (h *MatchHandler) Match(c *gin.Context) {
	var req matchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == nil {
		writeFieldError(c, "origin", "origin is required")
		return
	}
	dest, ok := h.resolveDestination(c, req)
	if !ok {
		return
	}
	radius := h.defaultRadius
	if req.RadiusM != nil {
		radius = *req.RadiusM
	}

	candidates, err := h.matching.Match(c.Request.Context(), matching.DestinationQuery{
		Origin:       *req.Origin,
		Destination:  dest,
		RadiusM:      radius,
		IncludeTaxis: req.IncludeTaxis,
	})
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, matchResp{Destination: dest, Candidates: candidates})
}

// resolveDestination prefers coordinates, then a catalog stop name, then a
// geocoded address.
func (h *MatchHandler) resolveDestination(c *gin.Context, req matchReq) (types.Point, bool) {
	ctx := c.Request.Context()
	if req.Destination != nil {
		return *req.Destination, true
	}
	if name := strings.TrimSpace(req.DestinationStop); name != "" {
		stop, err := h.matching.ResolveStop(ctx, name)
		if errors.Is(err, matching.ErrStopNotFound) {
			writeFieldError(c, "destination_stop", err.Error())
			return types.Point{}, false
		}
		if err != nil {
			writeMatchError(c, err)
			return types.Point{}, false
		}
		return stop.Coords, true
	}
	if addr := strings.TrimSpace(req.DestinationAddress); addr != "" {
		if h.geocoder == nil {
			writeFieldError(c, "destination_address", "address lookup is not configured")
			return types.Point{}, false
		}
		p, err := h.geocoder.Geocode(ctx, addr)
		if err != nil {
			h.logger.Info("geocode failed", zap.String("address", addr), zap.Error(err))
			writeFieldError(c, "destination_address", "address could not be resolved")
			return types.Point{}, false
		}
		return p, true
	}
	writeFieldError(c, "destination", "destination, destination_stop or destination_address is required")
	return types.Point{}, false
}
