package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units. All currency arithmetic in the
// system happens on this type; floats appear only at the JSON edge.
type Cents int64

// ParseAmount converts a decimal string such as "3.00" into cents.
// More than two fractional digits is rejected rather than rounded.
func ParseAmount(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("parse amount %q: more than two decimal places", s)
	}
	return Cents(scaled.IntPart()), nil
}

// CentsFromFloat converts a JSON price number into cents, rounding to the
// nearest cent.
func CentsFromFloat(v float64) Cents {
	return Cents(decimal.NewFromFloat(v).Shift(2).Round(0).IntPart())
}

// Float renders the amount as a float for wire payloads that carry prices as
// JSON numbers.
func (c Cents) Float() float64 {
	f, _ := decimal.New(int64(c), -2).Float64()
	return f
}

// MulRate multiplies the amount by a decimal rate, rounding half up to a
// whole cent.
func (c Cents) MulRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// String formats with two decimal places, e.g. "2.30".
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}
