// README: RouteFinder selects routes passing near a destination.
package routing

import (
	"smartride/internal/modules/location"
	"smartride/internal/types"
)

// FindCandidateRoutes returns, in catalog order, every route with a polyline
// vertex within radiusM metres of destination. The result never aliases the
// catalog's backing array.
func FindCandidateRoutes(destination types.Point, radiusM float64, catalog []Route) []Route {
	result := make([]Route, 0, len(catalog))
	for _, r := range catalog {
		if location.MinDistanceToPolyline(destination, r.Polyline) <= radiusM {
			result = append(result, r)
		}
	}
	return result
}
