package group

import (
	"fmt"

	"tpts/internal/pkg/errs"
)

// Status of a group shipment.
//
//	Open ──┬──> Closed ──┬──> PickingUp ──> InTransit ──> Delivering ──> Completed
//	       └──> Expired ─┘
//
// Open, Closed and Expired groups can also be Cancelled. An Expired group that ended under
// its minimum membership never proceeds to pickup.
type Status int

const (
	Unknown Status = iota
	Open
	Closed
	Expired
	PickingUp
	InTransit
	Delivering
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:    "Unknown",
	Open:       "Open",
	Closed:     "Closed",
	Expired:    "Expired",
	PickingUp:  "PickingUp",
	InTransit:  "InTransit",
	Delivering: "Delivering",
	Completed:  "Completed",
	Cancelled:  "Cancelled",
}

//nolint:exhaustive // terminal statuses have no outgoing edges
var allowedTransitions = map[Status][]Status{
	Open:       {Closed, Expired, Cancelled},
	Closed:     {PickingUp, Cancelled},
	Expired:    {PickingUp, Cancelled},
	PickingUp:  {InTransit},
	InTransit:  {Delivering},
	Delivering: {Completed},
}

func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) TransitionTo(next Status) (Status, error) {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, errs.NewInvalidStatusTransitionError("group", s.String(), next.String())
}

// CloseReason records why a group stopped accepting members.
type CloseReason int

const (
	NotClosed CloseReason = iota
	Filled
	DeadlineReached
	UnderMinimum
	CancelledByCompany
)

func (r CloseReason) String() string {
	switch r {
	case NotClosed:
		return ""
	case Filled:
		return "Filled"
	case DeadlineReached:
		return "DeadlineReached"
	case UnderMinimum:
		return "UnderMinimum"
	case CancelledByCompany:
		return "CancelledByCompany"
	}
	return "Unknown"
}
