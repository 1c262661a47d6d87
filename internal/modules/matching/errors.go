// README: Input validation errors surfaced to callers with the offending field.
package matching

import (
	"errors"
	"math"

	"smartride/internal/types"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrStopNotFound = errors.New("stop not found")
)

// InputError reports malformed input. It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

func validatePoint(field string, p types.Point) error {
	if !p.Valid() {
		return invalid(field, "latitude/longitude out of range")
	}
	return nil
}

func validateRadius(radiusM float64) error {
	if math.IsNaN(radiusM) || math.IsInf(radiusM, 0) || radiusM <= 0 {
		return invalid("radius_m", "must be a positive number of metres")
	}
	return nil
}
