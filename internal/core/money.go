// Package core provides the domain types shared by every other package:
// updates, ledger entries, money amounts and time periods.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a signed exact decimal amount. Negative values are expenses,
// positive values income.
type Money struct {
	Amount decimal.Decimal
}

// ParseAmount parses a monetary amount from user text.
//
// Both dot and comma are accepted as the decimal separator ("1234.56" and
// "1234,56" are the same value). A single leading sign is allowed. Strings
// with more than one separator, stray characters, or a zero value are
// rejected with ErrInvalidAmount / ErrZeroAmount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot.
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return Money{}, ErrInvalidAmount
	}
	body := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if body == "" || strings.ContainsAny(body, "+-") {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range body {
		if (r < '0' || r > '9') && r != '.' {
			return Money{}, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsZero() {
		return Money{}, ErrZeroAmount
	}
	return Money{Amount: d}, nil
}

// MustAmount is a test helper that panics on invalid input.
func MustAmount(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		panic("core: bad amount " + s + ": " + err.Error())
	}
	return m
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

func (m Money) Add(o Money) Money { return Money{Amount: m.Amount.Add(o.Amount)} }
func (m Money) Neg() Money        { return Money{Amount: m.Amount.Neg()} }
func (m Money) Abs() Money        { return Money{Amount: m.Amount.Abs()} }

// Equal compares numeric value, ignoring exponent representation.
func (m Money) Equal(o Money) bool { return m.Amount.Equal(o.Amount) }

// String renders the amount with at least two decimal places, the way the
// ledger sheet displays it.
func (m Money) String() string {
	if m.Amount.Exponent() > -2 {
		return m.Amount.StringFixed(2)
	}
	return m.Amount.String()
}
