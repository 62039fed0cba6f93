package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
)

var (
	// ErrActiveAssignmentExists is returned when a subject already has a pending or accepted offer.
	ErrActiveAssignmentExists = errors.New("subject already has an active assignment")

	// ErrParcelInGroup rejects single-parcel operations on a group member; the group
	// commands drive its members. Cancelling is allowed while the group is still Open.
	ErrParcelInGroup = errors.New("parcel belongs to a group")

	// ErrParcelNotInGroup is returned by group commands for parcels that are not members.
	ErrParcelNotInGroup = errors.New("parcel is not a member of the group")

	// ErrCompanyMismatch is returned when a parcel and a group belong to different companies.
	ErrCompanyMismatch = errors.New("parcel and group belong to different companies")

	// ErrGroupParcelsPending is returned when a leg is completed before all members moved.
	ErrGroupParcelsPending = errors.New("group has parcels not yet picked up")
)

// requireHolder checks that the acting agent is the one the parcel or leg is assigned to.
func requireHolder(holder *kernel.UUID, actor kernel.UUID) error {
	if holder == nil || !holder.IsEqual(actor) {
		return errs.ErrAgentNotAvailable
	}
	return nil
}

func requireIDs(ids ...kernel.UUID) error {
	problems := make([]error, 0, len(ids))
	for _, id := range ids {
		problems = append(problems, id.Validate())
	}
	return errors.Join(problems...)
}
