package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrEmailIsNotConstructed is returned when a zero value Email is used.
var ErrEmailIsNotConstructed = errs.NewValueIsRequiredError("email must be created via NewEmail")

// Email is the natural key customers are upserted on. It is stored trimmed and
// lower-cased so "Jane@Example.com " and "jane@example.com" resolve to one customer.
type Email struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewEmail normalizes and validates an address. Only the shape local@domain is
// checked; deliverability is the platform's concern.
func NewEmail(value string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}

	at := strings.LastIndex(normalized, "@")
	if at <= 0 || at == len(normalized)-1 || strings.ContainsAny(normalized, " \t\r\n") {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not an email address", normalized))
	}

	return Email{value: normalized, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the Email was created through NewEmail.
func (e Email) Validate() error {
	return e.guard.Validate(ErrEmailIsNotConstructed)
}

// String returns the normalized address.
func (e Email) String() string {
	return e.value
}

// IsEqual compares two normalized addresses.
func (e Email) IsEqual(other Email) bool {
	return e.value == other.value
}
