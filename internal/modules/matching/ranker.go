// README: Candidate ranker: ETA, fare and occupancy per vehicle, sorted by arrival.
package matching

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/location"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

// Ranker turns located vehicles into ranked candidates. It holds no mutable
// state and is safe for concurrent use.
type Ranker struct {
	eta         EtaEstimator
	fares       pricing.FareEstimator
	pickupSpeed float64
	logger      *zap.Logger
}

func NewRanker(eta EtaEstimator, fares pricing.FareEstimator, pickupSpeedMPerMin float64, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{eta: eta, fares: fares, pickupSpeed: pickupSpeedMPerMin, logger: logger}
}

// DefaultRanker uses the default speeds and the BWP tariff.
func DefaultRanker(logger *zap.Logger) *Ranker {
	return NewRanker(DefaultEtaEstimator(), pricing.DefaultSchedule("BWP"), DefaultPickupSpeedMPerMin, logger)
}

// Rank validates every vehicle first, so malformed input yields no partial
// result. Output is stable-sorted by EtaToDestinationMin.
func (r *Ranker) Rank(vehicles []fleet.Vehicle, destination types.Point, catalog []routing.Route) ([]CandidateVehicle, error) {
	if err := validatePoint("destination", destination); err != nil {
		return nil, err
	}
	for i, v := range vehicles {
		if err := v.Validate(); err != nil {
			var fe *fleet.FieldError
			if errors.As(err, &fe) {
				return nil, invalid(fmt.Sprintf("vehicles[%d].%s", i, fe.Field), fe.Reason)
			}
			return nil, invalid(fmt.Sprintf("vehicles[%d]", i), err.Error())
		}
	}

	routes := routing.Catalog(catalog)
	out := make([]CandidateVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		c, err := r.candidate(v, destination, routes)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b CandidateVehicle) int {
		return cmp.Compare(a.EtaToDestinationMin, b.EtaToDestinationMin)
	})
	return out, nil
}

func (r *Ranker) candidate(v fleet.Vehicle, destination types.Point, routes routing.Catalog) (CandidateVehicle, error) {
	var route *routing.Route
	if !v.IsTaxi() {
		if found, ok := routes.Find(*v.RouteID); ok {
			cp := *found
			cp.Polyline = slices.Clone(found.Polyline)
			cp.Stops = slices.Clone(found.Stops)
			route = &cp
		} else {
			r.logger.Warn("vehicle references unknown route; ranking as taxi",
				zap.String("vehicle_id", v.ID.String()),
				zap.String("route_id", v.RouteID.String()),
			)
		}
	}

	distM := location.DistanceM(v.Coords, destination)
	pickup := max(minPickupMin, roundMin(distM/r.pickupSpeed))

	rideType := pricing.RideTaxi
	var toDest int
	if route != nil {
		rideType = pricing.RideFixedRoute
		toDest = max(minRouteTripMin, pickup+roundMin(r.eta.TransitMin(v, *route, destination)))
	} else {
		toDest = max(minDirectTripMin, pickup+roundMin(r.eta.DirectMin(v, destination)))
	}

	fare, err := r.fares.Estimate(rideType, distM/1000)
	if err != nil {
		return CandidateVehicle{}, fmt.Errorf("estimate fare for vehicle %s: %w", v.ID, err)
	}

	return CandidateVehicle{
		Vehicle:                 v,
		Route:                   route,
		EtaToPickupMin:          pickup,
		EtaToDestinationMin:     toDest,
		FareEstimate:            fare.Major(),
		Currency:                fare.Currency,
		OccupancyPct:            int(math.Round(100 * float64(v.Occupancy) / float64(v.Capacity))),
		WillPassNearDestination: route != nil,
		IsOverCapacity:          v.Occupancy >= v.Capacity,
	}, nil
}
