// Package errs provides standardized error types for the logistics core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two groups of errors:
//   - Validation errors: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//     and ObjectNotFoundError, each with a sentinel and constructors with and without cause
//   - Domain rule violations: sentinel kinds such as ErrInvalidStatusTransition, ErrGroupFull
//     or ErrInsufficientFunds, plus typed errors (InvalidStatusTransitionError,
//     DataIntegrityError) that unwrap to them
//
// Callers classify errors with errors.Is against the sentinels. Domain rule violations
// are always recoverable; ErrDataIntegrity marks a broken internal invariant and is
// logged and reported without details.
package errs
