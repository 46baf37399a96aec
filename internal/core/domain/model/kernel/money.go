package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for monetary amounts.
// It matches the decimal(10,2) columns the amounts are stored in.
const MoneyScale = 2

// ErrMoneyIsNotConstructed is returned when a zero value Money is used.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or MoneyFromDecimal")

// Money is an immutable decimal amount. It never passes through float64, so
// amounts received as strings like "149.90" are stored and returned exactly.
//
// Example:
//
//	price, err := kernel.NewMoney("149.90")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(price) // 149.90
type Money struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney parses a decimal string. Surrounding whitespace is ignored; an empty
// string, exponent notation overflow or any non-numeric text is rejected.
func NewMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Money{}, errs.NewValueIsRequiredError("amount")
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", trimmed, err))
	}

	return MoneyFromDecimal(amount), nil
}

// MustNewMoney is NewMoney for literals in tests and fixtures. It panics on error.
func MustNewMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromDecimal wraps an existing decimal, typically one scanned from the database.
func MoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{amount: amount, guard: guard.NewConstructorGuard()}
}

// Validate reports whether the Money was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Decimal returns the underlying amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsEqual compares amounts numerically, so "10.0" equals "10.00".
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with MoneyScale fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
