package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by the display currency:
// one display unit equals 10^18 base units.
const Scale = 18

var (
	// ErrMalformedAmount indicates the input is not a well-formed decimal number.
	ErrMalformedAmount = errors.New("malformed amount")

	// ErrNegativeAmount indicates a negative amount where only non-negative
	// values are meaningful.
	ErrNegativeAmount = errors.New("negative amount")

	// ErrTooPrecise indicates the input carries more fractional digits than the
	// base-unit scale can represent exactly.
	ErrTooPrecise = errors.New("amount exceeds base-unit precision")
)

// ToBaseUnits converts a user-entered decimal amount into an exact integer
// number of base units. Arithmetic is exact decimal throughout; binary
// floating point is never involved.
func ToBaseUnits(amount string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return decimal.Decimal{}, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, ErrMalformedAmount
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrNegativeAmount
	}
	units := d.Shift(Scale)
	if !units.IsInteger() {
		return decimal.Decimal{}, ErrTooPrecise
	}
	return units, nil
}

// FromBaseUnits renders an integer base-unit amount back as a display-currency
// decimal string, the exact inverse of ToBaseUnits.
func FromBaseUnits(units decimal.Decimal) string {
	return units.Shift(-Scale).String()
}
