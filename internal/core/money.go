// Package core provides the expense-note domain model.
//
// Money is fixed-point: amounts are stored as int64 cents so that running
// totals never accumulate floating-point drift. Parsing from user input goes
// through shopspring/decimal.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in cents.
type Money struct {
	Cents int64
}

// Validate rejects non-positive amounts. Zero is not a valid amount for
// entries or budgets; refunds are not representable.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount converts a decimal string to Money with half-up rounding on the
// third decimal place. Both dot (12.34) and comma (12,34) separators are
// accepted. Only strictly positive amounts parse; explicit signs are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Cents: cents.IntPart()}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// String formats the amount with two decimal places, e.g. "12.34". Negative
// values (overspent remaining budgets) format with a leading minus.
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
