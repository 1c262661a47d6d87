// README: Distance-based fare estimation over a rate schedule.
package pricing

import (
	"fmt"
	"math"

	"smartride/internal/types"
)

// FareEstimator prices a ride of the given type over distanceKm.
type FareEstimator interface {
	Estimate(rideType RideType, distanceKm float64) (types.Money, error)
}

// Schedule is the default FareEstimator. It is immutable once built.
type Schedule struct {
	rates map[RideType]Rate
}

// NewSchedule builds a schedule; later rates for the same ride type win.
func NewSchedule(rates ...Rate) (*Schedule, error) {
	s := &Schedule{rates: make(map[RideType]Rate, len(rates))}
	for _, r := range rates {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		s.rates[r.RideType] = r
	}
	return s, nil
}

func (s *Schedule) Rate(rideType RideType) (Rate, bool) {
	r, ok := s.rates[rideType]
	return r, ok
}

func (s *Schedule) Estimate(rideType RideType, distanceKm float64) (types.Money, error) {
	r, ok := s.rates[rideType]
	if !ok {
		return types.Money{}, fmt.Errorf("%w: %q", ErrUnknownRideType, rideType)
	}
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return types.Money{}, ErrInvalidDistance
	}
	variable := int64(math.Round(float64(r.PerKm) * distanceKm))
	if variable > r.MaxVariable {
		variable = r.MaxVariable
	}
	return types.Money{Amount: r.BaseFare + variable, Currency: r.Currency}, nil
}

// DefaultSchedule prices with DefaultRates in the given currency.
func DefaultSchedule(currency string) *Schedule {
	s := &Schedule{rates: make(map[RideType]Rate, 2)}
	for _, r := range DefaultRates(currency) {
		s.rates[r.RideType] = r
	}
	return s
}
