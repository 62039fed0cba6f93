package assignment

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
)

// Subject is what an offer is for: an individual parcel, or one leg of a group shipment.
type Subject struct {
	parcelID *kernel.UUID
	groupID  *kernel.UUID
	leg      Leg
}

func ParcelSubject(parcelID kernel.UUID) Subject {
	return Subject{parcelID: &parcelID, leg: NoLeg}
}

func GroupLegSubject(groupID kernel.UUID, leg Leg) Subject {
	return Subject{groupID: &groupID, leg: leg}
}

// Validate requires exactly one of parcel or group, and a leg only for groups.
func (s Subject) Validate() error {
	switch {
	case s.parcelID != nil && s.groupID == nil && s.leg == NoLeg:
		return s.parcelID.Validate()
	case s.groupID != nil && s.parcelID == nil && (s.leg == PickupLeg || s.leg == DeliveryLeg):
		return s.groupID.Validate()
	}
	return errs.NewValueIsInvalidErrorWithCause("assignment subject", errors.New("must be a parcel or a group leg"))
}

func (s Subject) IsGroupLeg() bool { return s.groupID != nil }

// ParcelID is nil for group legs.
func (s Subject) ParcelID() *kernel.UUID { return s.parcelID }

// GroupID is nil for parcels.
func (s Subject) GroupID() *kernel.UUID { return s.groupID }

func (s Subject) Leg() Leg { return s.leg }

// IsEqual compares subjects by value.
func (s Subject) IsEqual(other Subject) bool {
	return kernel.UUIDPtrEqual(s.parcelID, other.parcelID) &&
		kernel.UUIDPtrEqual(s.groupID, other.groupID) &&
		s.leg == other.leg
}

// String is stable and used for logs and lock keys.
func (s Subject) String() string {
	if s.parcelID != nil {
		return "parcel:" + s.parcelID.String()
	}
	if s.groupID != nil {
		return "group:" + s.groupID.String() + ":" + s.leg.String()
	}
	return "none"
}
