package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrPickUpParcelCommandIsNotConstructed = errors.New(
	"PickUpParcelCommand must be created via NewPickUpParcelCommand constructor",
)

// PickUpParcelCommand is the assigned agent collecting a parcel with the customer's pickup OTP.
type PickUpParcelCommand struct {
	parcelID kernel.UUID
	agentID  kernel.UUID
	otp      string

	guard guard.ConstructorGuard
}

func NewPickUpParcelCommand(parcelID, agentID kernel.UUID, otp string) (PickUpParcelCommand, error) {
	if err := requireIDs(parcelID, agentID); err != nil {
		return PickUpParcelCommand{}, err
	}
	return PickUpParcelCommand{parcelID: parcelID, agentID: agentID, otp: otp, guard: guard.NewConstructorGuard()}, nil
}

func (c PickUpParcelCommand) Validate() error {
	return c.guard.Validate(ErrPickUpParcelCommandIsNotConstructed)
}

func (c PickUpParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c PickUpParcelCommand) AgentID() kernel.UUID  { return c.agentID }
func (c PickUpParcelCommand) Otp() string           { return c.otp }
