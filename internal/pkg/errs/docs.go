// Package errs provides standardized error types for the iskxpress application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error families:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - Lookup: ObjectNotFoundError
//   - Lifecycle: InvalidTransitionError, ConflictError, PermissionError, ExpiredError
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// All validation errors additionally match ErrValidation through errors.Is, so
// transports can classify a whole family with a single check.
package errs
