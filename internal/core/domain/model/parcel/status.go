package parcel

import (
	"fmt"

	"tpts/internal/pkg/errs"
)

// Status is the lifecycle state of a parcel.
//
// State transitions:
//
//	Created ──> Confirmed ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	               ▲             │
//	               └─────────────┘ (agent released before pickup)
//
// Cancelled is reachable from every non-terminal state. Delivered and Cancelled are terminal.
//
// Every move is checked against a single allow-list (see TransitionTo); aggregate methods
// never set the status field directly.
type Status int

const (
	// Unknown is the zero value and is never valid.
	Unknown Status = iota

	// Created parcels wait for the payment callback.
	Created

	// Confirmed parcels are paid and may be dispatched or join a group.
	Confirmed

	// Assigned parcels have an agent who accepted the offer.
	Assigned

	// PickedUp parcels were collected after the pickup OTP check.
	PickedUp

	// InTransit parcels are on their way to the delivery address.
	InTransit

	// Delivered is terminal; it is reached only through the delivery OTP check.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:   "Unknown",
	Created:   "Created",
	Confirmed: "Confirmed",
	Assigned:  "Assigned",
	PickedUp:  "PickedUp",
	InTransit: "InTransit",
	Delivered: "Delivered",
	Cancelled: "Cancelled",
}

//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
var allowedTransitions = map[Status][]Status{
	Created:   {Confirmed, Cancelled},
	Confirmed: {Assigned, Cancelled},
	Assigned:  {Confirmed, PickedUp, Cancelled},
	PickedUp:  {InTransit, Cancelled},
	InTransit: {Delivered, Cancelled},
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values, e.g. corrupt database rows.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is on the allow-list for s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the move is allowed, or an InvalidStatusTransitionError.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidStatusTransitionError("parcel", s.String(), next.String())
	}
	return next, nil
}

// PaymentStatus tracks the outcome of the customer's checkout as reported by the gateway.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentUnknown:  "Unknown",
	PaymentPending:  "Pending",
	PaymentPaid:     "Paid",
	PaymentFailed:   "Failed",
	PaymentRefunded: "Refunded",
}

func (s PaymentStatus) String() string {
	if str, ok := paymentStatusNames[s]; ok {
		return str
	}
	return "Unknown"
}

func (s PaymentStatus) Validate() error {
	if s <= PaymentUnknown || s > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}
