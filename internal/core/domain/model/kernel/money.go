package kernel

import (
	"fmt"

	"iskxpress/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Cents is the scale every persisted amount is kept at.
const Cents int32 = 2

// Money is a non-negative currency amount. Arithmetic is exact; rounding happens
// only where a caller asks for it through CeilCents.
//
// The zero value is 0.00 and is valid.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is 0.00.
var ZeroMoney = Money{}

// NewMoney wraps a decimal amount. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "+inf")
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses an amount such as "100.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MustMoney is MoneyFromString for literals. It panics on bad input.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// RestoreMoney rebuilds an amount loaded from storage without re-validating it.
func RestoreMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub fails when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

// Times multiplies by a quantity.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Scale multiplies by a non-negative factor without rounding.
func (m Money) Scale(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor))
}

// CeilCents rounds up to the next whole cent: 0.011 becomes 0.02.
func (m Money) CeilCents() Money {
	return Money{amount: m.amount.RoundCeil(Cents)}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(Cents)
}

func (m Money) GoString() string {
	return fmt.Sprintf("kernel.Money(%s)", m.String())
}
