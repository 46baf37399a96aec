// Package errs provides standardized error types for the order intake service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: a required value or payload field is missing
//   - ValueIsInvalidError: a value is present but cannot be used
//   - ValueIsOutOfRangeError: a value falls outside its allowed bounds
//   - ObjectNotFoundError: an object cannot be found by its identifier
//   - ObjectAlreadyExistsError: a natural key (order number, email) is already taken
//
// Each error type follows the same pattern: a sentinel error variable, a struct with
// the error details, constructors with and without cause, and an Unwrap method so
// callers can classify failures with errors.Is and errors.As.
//
// ParamName carries a field path such as "line_items[0].quantity" when the error
// originates from payload validation.
package errs
