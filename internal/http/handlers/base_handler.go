// README: Base handler utilities (JSON helpers, query parsing, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartride/internal/modules/matching"
	"smartride/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeFieldError(c *gin.Context, field, msg string) {
	writeJSON(c, http.StatusBadRequest, errorResponse{Error: msg, Field: field})
}

// writeMatchError maps service errors to responses. Anything that is not an
// input problem is logged by the caller's middleware and hidden from clients.
func writeMatchError(c *gin.Context, err error) {
	var ie *matching.InputError
	switch {
	case errors.As(err, &ie):
		writeFieldError(c, ie.Field, ie.Error())
	case errors.Is(err, matching.ErrStopNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// queryPoint reads lat and lng query parameters.
func queryPoint(c *gin.Context, field string) (types.Point, bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeFieldError(c, field, "lat and lng query parameters are required numbers")
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}

// queryRadius reads radius_m, falling back to def when absent.
func queryRadius(c *gin.Context, def float64) (float64, bool) {
	raw, ok := c.GetQuery("radius_m")
	if !ok || raw == "" {
		return def, true
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeFieldError(c, "radius_m", "radius_m must be a number")
		return 0, false
	}
	return r, true
}
