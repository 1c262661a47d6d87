// README: Fare rate definition for each ride type.
package pricing

import (
	"errors"
	"fmt"
)

type RideType string

const (
	RideFixedRoute RideType = "fixed_route"
	RideTaxi       RideType = "taxi"
)

var (
	ErrUnknownRideType = errors.New("unknown ride type")
	ErrInvalidDistance = errors.New("distance must be a finite, non-negative number")
	ErrRateNotFound    = errors.New("fare rate not found")
)

// Rate prices one ride type. Amounts are in minor currency units: the fare is
// BaseFare plus PerKm for every kilometre, with the distance part capped at
// MaxVariable.
type Rate struct {
	RideType    RideType
	BaseFare    int64
	PerKm       int64
	MaxVariable int64
	Currency    string
}

func (r Rate) Validate() error {
	switch {
	case r.RideType != RideFixedRoute && r.RideType != RideTaxi:
		return fmt.Errorf("%w: %q", ErrUnknownRideType, r.RideType)
	case r.BaseFare <= 0:
		return fmt.Errorf("rate %s: base fare must be positive", r.RideType)
	case r.PerKm < 0 || r.MaxVariable < 0:
		return fmt.Errorf("rate %s: per-km and variable cap must not be negative", r.RideType)
	case r.Currency == "":
		return fmt.Errorf("rate %s: currency is required", r.RideType)
	}
	return nil
}

// DefaultRates mirror the pilot tariff: minibus fares start at P6, taxis at P25.
func DefaultRates(currency string) []Rate {
	return []Rate{
		{RideType: RideFixedRoute, BaseFare: 600, PerKm: 100, MaxVariable: 500, Currency: currency},
		{RideType: RideTaxi, BaseFare: 2500, PerKm: 400, MaxVariable: 1500, Currency: currency},
	}
}
