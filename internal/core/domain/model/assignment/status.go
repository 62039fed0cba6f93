package assignment

import (
	"fmt"

	"tpts/internal/pkg/errs"
)

// Status is the outcome of a single offer.
//
//	Pending ──┬──> Accepted ──> Superseded
//	          ├──> Rejected
//	          ├──> Expired
//	          └──> Superseded
//
// Rejected, Expired and Superseded are final. Accepted only moves on when the parcel is
// cancelled or reassigned by the company.
type Status int

const (
	Unknown Status = iota
	Pending
	Accepted
	Rejected
	Expired
	Superseded
)

var statusNames = map[Status]string{
	Unknown:    "Unknown",
	Pending:    "Pending",
	Accepted:   "Accepted",
	Rejected:   "Rejected",
	Expired:    "Expired",
	Superseded: "Superseded",
}

//nolint:exhaustive // final statuses have no outgoing edges
var allowedTransitions = map[Status][]Status{
	Pending:  {Accepted, Rejected, Expired, Superseded},
	Accepted: {Superseded},
}

func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Superseded {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsActive reports whether the offer still binds its subject: waiting for an answer or accepted.
func (s Status) IsActive() bool {
	return s == Pending || s == Accepted
}

// TransitionTo returns next when the move is on the allow-list.
func (s Status) TransitionTo(next Status) (Status, error) {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, errs.NewInvalidStatusTransitionError("assignment", s.String(), next.String())
}

// Leg names the half of a group shipment an offer is for.
type Leg int

const (
	NoLeg Leg = iota
	PickupLeg
	DeliveryLeg
)

func (l Leg) String() string {
	switch l {
	case PickupLeg:
		return "Pickup"
	case DeliveryLeg:
		return "Delivery"
	case NoLeg:
		return "None"
	}
	return "Unknown"
}
