package matching

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError(t *testing.T) {
	err := invalid("radius_m", "must be a positive number of metres")

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(fmt.Errorf("match: %w", err), ErrInvalidInput))
	assert.Equal(t, "invalid radius_m: must be a positive number of metres", err.Error())
	assert.False(t, errors.Is(errors.New("other"), ErrInvalidInput))
}

func TestValidateRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, validateRadius(r), ErrInvalidInput, "radius %v", r)
	}
	assert.NoError(t, validateRadius(0.5))
}
