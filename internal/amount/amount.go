// Package amount converts between human readable token amounts ("1000.5")
// and the integer base units the ledger stores (1000.5 * 10^decimals).
package amount

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	ErrNegative  = errors.New("amount must not be negative")
	ErrPrecision = errors.New("amount has more fractional digits than the token supports")
	ErrRange     = errors.New("amount does not fit in 256 bits")
)

// maxDigits is the number of decimal digits in 2^256-1.
const maxDigits = 78

// Parse converts a decimal string to base units for a token with the given
// number of decimals.
func Parse(s string, decimals uint8) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d, decimals)
}

// FromDecimal converts a human amount to base units.
func FromDecimal(d decimal.Decimal, decimals uint8) (*uint256.Int, error) {
	if d.Sign() < 0 {
		return nil, ErrNegative
	}
	if d.IsZero() {
		return new(uint256.Int), nil
	}
	// Bound the exponent before Shift and IsInteger, which both cost time
	// proportional to it.
	exp := int64(d.Exponent()) + int64(decimals)
	switch {
	case exp >= maxDigits:
		return nil, ErrRange
	case exp < 0 && -exp > int64(d.NumDigits()):
		return nil, ErrPrecision
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, ErrPrecision
	}
	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, ErrRange
	}
	return v, nil
}

// Format converts base units back to a human amount. A nil value formats as zero.
func Format(v *uint256.Int, decimals uint8) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v.ToBig(), -int32(decimals))
}

// Units returns 10^decimals, the number of base units in one whole token.
func Units(decimals uint8) (*uint256.Int, error) {
	if decimals > 77 {
		return nil, ErrRange
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals))), nil
}
