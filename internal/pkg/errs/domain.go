package errs

import (
	"errors"
	"fmt"
)

// Domain rule violations. Every one of them is recoverable by the caller; match with errors.Is.
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	ErrInvalidPickupOtp   = errors.New("invalid pickup otp")
	ErrInvalidDeliveryOtp = errors.New("invalid delivery otp")
	ErrOtpExpired         = errors.New("otp expired")

	ErrAgentNotAvailable    = errors.New("agent not available")
	ErrNoAgentsAvailable    = errors.New("no agents available")
	ErrAgentAlreadyAssigned = errors.New("agent already assigned")
	ErrNeedsReassignment    = errors.New("needs manual reassignment")

	ErrAssignmentAlreadyResponded = errors.New("assignment already responded")
	ErrAssignmentExpired          = errors.New("assignment expired")

	ErrGroupFull           = errors.New("group full")
	ErrGroupClosed         = errors.New("group closed")
	ErrGroupDeadlinePassed = errors.New("group deadline passed")
	ErrAlreadyJoinedGroup  = errors.New("already joined group")
	ErrRouteMismatch       = errors.New("route mismatch")

	ErrPaymentFailed           = errors.New("payment failed")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrRefundFailed            = errors.New("refund failed")

	// ErrDataIntegrity marks a broken internal invariant (e.g. a split that does not reconcile).
	// It is logged and surfaced to clients without details.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrConcurrentModification is returned by repositories when an optimistic version check fails.
	// Commands retry their read-transition cycle on it.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// InvalidStatusTransitionError describes a rejected status change of an entity.
type InvalidStatusTransitionError struct {
	Entity string
	From   string
	To     string
}

// NewInvalidStatusTransitionError creates an InvalidStatusTransitionError.
func NewInvalidStatusTransitionError(entity, from, to string) *InvalidStatusTransitionError {
	return &InvalidStatusTransitionError{Entity: entity, From: from, To: to}
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrInvalidStatusTransition, e.Entity, e.From, e.To)
}

func (e *InvalidStatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// DataIntegrityError carries the detail of a broken invariant for logs.
type DataIntegrityError struct {
	Detail string
}

// NewDataIntegrityError creates a DataIntegrityError.
func NewDataIntegrityError(format string, args ...any) *DataIntegrityError {
	return &DataIntegrityError{Detail: fmt.Sprintf(format, args...)}
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDataIntegrity, e.Detail)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}
