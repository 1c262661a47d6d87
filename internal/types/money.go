// README: Common money value object used across modules.
package types

// Money is an amount in minor currency units (thebe for BWP).
type Money struct {
	Amount   int64
	Currency string
}

// Major returns the amount in major currency units.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}
