package kernel

import (
	"fmt"

	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every amount is rounded to.
const moneyScale = 2

// Money is a non-negative amount rounded to two decimal places, half away from zero.
// Settlement compares rounded values only, so a payment of 33.335 counts as 33.34.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney rounds d to two places and rejects negative amounts.
func NewMoney(d decimal.Decimal) (Money, error) {
	rounded := d.Round(moneyScale)
	if rounded.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", rounded.String(), "0", "unbounded")
	}
	return Money{amount: rounded}, nil
}

// MoneyFromFloat is a convenience for request payloads and tests.
func MoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// MoneyFromString parses a decimal string such as "18.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q: %w", s, err))
	}
	return NewMoney(d)
}

// MustMoney panics on error. Use only with constants.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the rounded value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount for JSON responses.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulInt returns m multiplied by n, for line totals.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))).Round(moneyScale)}
}

// GreaterThanOrEqual reports whether m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// IsZero reports whether the amount is 0.00.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares rounded values.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// SumMoney adds all amounts.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
