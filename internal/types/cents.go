package types

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor currency units, e.g. euro cents.
// All money in Divvy Up is integer minor units so that repeated summation
// never accumulates rounding drift. Negative amounts are outflows.
type Cents int64

// ErrFractionalCents is returned when a decimal amount cannot be
// represented exactly in minor units.
var ErrFractionalCents = errors.New("the amount has more than two decimal places")

// CentsFromDecimal converts a decimal amount of major units ("12.34")
// into minor units. The conversion must be exact.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrFractionalCents, d)
	}

	return Cents(shifted.IntPart()), nil
}

// ParseCents parses a decimal string of major units into minor units.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	return CentsFromDecimal(d)
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String returns the amount formatted in major units, e.g. "12.34".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// IsZero reports whether the amount is zero.
func (c Cents) IsZero() bool {
	return c == 0
}

// Neg returns the amount with its sign inverted.
func (c Cents) Neg() Cents {
	return -c
}
