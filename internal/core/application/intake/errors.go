package intake

import (
	"errors"
	"fmt"
)

// ErrPayloadIsInvalid marks every rejection of a payload. A rejected payload must not be
// retried unchanged.
var ErrPayloadIsInvalid = errors.New("payload is invalid")

// PayloadError pairs ErrPayloadIsInvalid with the errs value error describing the first
// offending field. Field is a path like "line_items[0].quantity".
type PayloadError struct {
	Field string
	Cause error
}

func newPayloadError(field string, cause error) *PayloadError {
	return &PayloadError{Field: field, Cause: cause}
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPayloadIsInvalid, e.Cause)
}

func (e *PayloadError) Unwrap() []error {
	return []error{ErrPayloadIsInvalid, e.Cause}
}
