// README: Deterministic, distance-proportional travel time estimates.
package matching

import (
	"math"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/location"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

const (
	// DefaultPickupSpeedMPerMin scales distance into the pickup ETA.
	DefaultPickupSpeedMPerMin = 200.0
	// DefaultTransitSpeedMPerMin is minibus speed along its route, stops included.
	DefaultTransitSpeedMPerMin = 300.0
	// DefaultDirectSpeedMPerMin is taxi speed on a direct trip.
	DefaultDirectSpeedMPerMin = 400.0

	minPickupMin     = 1
	minRouteTripMin  = 5
	minDirectTripMin = 8
)

// EtaEstimator supplies travel times in minutes.
type EtaEstimator interface {
	// TransitMin is the time spent riding route from the vehicle to destination.
	TransitMin(v fleet.Vehicle, route routing.Route, destination types.Point) float64
	// DirectMin is the time of a door-to-door trip from the vehicle to destination.
	DirectMin(v fleet.Vehicle, destination types.Point) float64
}

// SpeedEtaEstimator divides distances by fixed speeds. Transit follows the
// polyline between the vertices nearest the vehicle and the destination.
type SpeedEtaEstimator struct {
	TransitSpeedMPerMin float64
	DirectSpeedMPerMin  float64
}

func DefaultEtaEstimator() SpeedEtaEstimator {
	return SpeedEtaEstimator{
		TransitSpeedMPerMin: DefaultTransitSpeedMPerMin,
		DirectSpeedMPerMin:  DefaultDirectSpeedMPerMin,
	}
}

func (e SpeedEtaEstimator) TransitMin(v fleet.Vehicle, route routing.Route, destination types.Point) float64 {
	from, _ := location.NearestVertex(v.Coords, route.Polyline)
	to, _ := location.NearestVertex(destination, route.Polyline)
	if from < 0 || to < 0 {
		return 0
	}
	return location.PathLengthM(route.Polyline, from, to) / e.TransitSpeedMPerMin
}

func (e SpeedEtaEstimator) DirectMin(v fleet.Vehicle, destination types.Point) float64 {
	return location.DistanceM(v.Coords, destination) / e.DirectSpeedMPerMin
}

func roundMin(minutes float64) int {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0
	}
	return int(math.Round(minutes))
}
