// README: Matching engine: route finder, vehicle locator and ranker in sequence.
package matching

import (
	"smartride/internal/modules/fleet"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

// Engine composes the three matching stages with pluggable policies.
type Engine struct {
	Locator fleet.Locator
	Ranker  *Ranker
}

func NewEngine(locator fleet.Locator, ranker *Ranker) *Engine {
	return &Engine{Locator: locator, Ranker: ranker}
}

// Match finds routes passing near the destination, then vehicles near the
// origin serving those routes (or taxis), and ranks them.
func (e *Engine) Match(q DestinationQuery, catalog []routing.Route, vehicles []fleet.Vehicle) ([]CandidateVehicle, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	routes := routing.FindCandidateRoutes(q.Destination, q.RadiusM, catalog)
	near := e.Locator.Find(q.Origin, q.RadiusM, routing.IDSet(routes), q.IncludeTaxis, vehicles)
	return e.Ranker.Rank(near, q.Destination, catalog)
}

var defaultEngine = NewEngine(fleet.Locator{}, DefaultRanker(nil))

// MatchVehicles runs the default engine.
func MatchVehicles(q DestinationQuery, catalog []routing.Route, vehicles []fleet.Vehicle) ([]CandidateVehicle, error) {
	return defaultEngine.Match(q, catalog, vehicles)
}

// RankCandidates ranks vehicles with the default ranker.
func RankCandidates(vehicles []fleet.Vehicle, destination types.Point, catalog []routing.Route) ([]CandidateVehicle, error) {
	return defaultEngine.Ranker.Rank(vehicles, destination, catalog)
}
