// README: Vehicle locator: vehicles near the origin that serve a matched route, or taxis.
package fleet

import (
	"smartride/internal/modules/location"
	"smartride/internal/types"
)

// Locator selects vehicles near a pickup point. Vehicles whose status is in
// ExcludedStatuses are skipped; the zero value skips nothing.
type Locator struct {
	ExcludedStatuses []Status
}

// Find returns, in fleet order, every vehicle within radiusM of origin that
// either runs one of the matched routes or, when includeTaxis is set, is a taxi.
// A vehicle whose route id is not in matched is dropped even if the route
// exists elsewhere in the catalog.
func (l Locator) Find(origin types.Point, radiusM float64, matched map[types.ID]struct{}, includeTaxis bool, vehicles []Vehicle) []Vehicle {
	out := make([]Vehicle, 0)
	for _, v := range vehicles {
		if l.excluded(v.Status) {
			continue
		}
		if location.DistanceM(origin, v.Coords) > radiusM {
			continue
		}
		if v.IsTaxi() {
			if includeTaxis {
				out = append(out, v)
			}
			continue
		}
		if _, ok := matched[*v.RouteID]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (l Locator) excluded(s Status) bool {
	for _, ex := range l.ExcludedStatuses {
		if ex == s {
			return true
		}
	}
	return false
}

// FindVehiclesNear runs the zero-value Locator.
func FindVehiclesNear(origin types.Point, radiusM float64, matched map[types.ID]struct{}, includeTaxis bool, vehicles []Vehicle) []Vehicle {
	return Locator{}.Find(origin, radiusM, matched, includeTaxis, vehicles)
}
