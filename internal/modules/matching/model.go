// README: Matching query and ranked candidate output.
package matching

import (
	"smartride/internal/modules/fleet"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

// DestinationQuery asks for vehicles near Origin that can take the passenger
// to Destination.
type DestinationQuery struct {
	Origin       types.Point `json:"origin"`
	Destination  types.Point `json:"destination"`
	RadiusM      float64     `json:"radius_m"`
	IncludeTaxis bool        `json:"include_taxis"`
}

func (q DestinationQuery) Validate() error {
	if err := validatePoint("origin", q.Origin); err != nil {
		return err
	}
	if err := validatePoint("destination", q.Destination); err != nil {
		return err
	}
	return validateRadius(q.RadiusM)
}

// CandidateVehicle is one ranked option. Route is nil for taxis and for
// vehicles whose route id is not in the catalog.
type CandidateVehicle struct {
	Vehicle                 fleet.Vehicle  `json:"vehicle"`
	Route                   *routing.Route `json:"route,omitempty"`
	EtaToPickupMin          int            `json:"eta_to_pickup_min"`
	EtaToDestinationMin     int            `json:"eta_to_destination_min"`
	FareEstimate            float64        `json:"fare_estimate"`
	Currency                string         `json:"currency"`
	OccupancyPct            int            `json:"occupancy_pct"`
	WillPassNearDestination bool           `json:"will_pass_near_destination"`
	IsOverCapacity          bool           `json:"is_over_capacity"`
}
