package domain

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in the smallest unit of its currency (cents for
// ZAR). All ledger arithmetic happens on int64; floats never touch money.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Int64 returns the amount as a raw int64 of minor units.
func (a Amount) Int64() int64 {
	return int64(a)
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// IsNegative reports whether the amount is less than zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// Compare returns -1, 0 or 1 depending on whether a is less than, equal to
// or greater than b.
func (a Amount) Compare(b Amount) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String returns the amount in minor units as a decimal integer.
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Add returns a + b, failing on int64 overflow instead of wrapping.
func (a Amount) Add(b Amount) (Amount, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrAmountOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// Sub returns a - b, failing on int64 overflow instead of wrapping.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b < 0 && a > math.MaxInt64+b {
		return 0, ErrAmountOverflow
	}
	if b > 0 && a < math.MinInt64+b {
		return 0, ErrAmountOverflow
	}
	return a - b, nil
}

// Neg returns -a. MinInt64 has no positive counterpart.
func (a Amount) Neg() (Amount, error) {
	if a == math.MinInt64 {
		return 0, ErrAmountOverflow
	}
	return -a, nil
}

// Display converts the amount to its decimal form for presentation, given
// the currency's exponent. Never feed the result back into arithmetic.
func (a Amount) Display(exponent int32) decimal.Decimal {
	return decimal.New(int64(a), -exponent)
}
