package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrPickUpGroupParcelCommandIsNotConstructed = errors.New(
	"PickUpGroupParcelCommand must be created via NewPickUpGroupParcelCommand constructor",
)

// PickUpGroupParcelCommand is the pickup agent of a group collecting one member parcel
// with its pickup OTP.
type PickUpGroupParcelCommand struct {
	groupID  kernel.UUID
	parcelID kernel.UUID
	agentID  kernel.UUID
	otp      string

	guard guard.ConstructorGuard
}

func NewPickUpGroupParcelCommand(groupID, parcelID, agentID kernel.UUID, otp string) (PickUpGroupParcelCommand, error) {
	if err := requireIDs(groupID, parcelID, agentID); err != nil {
		return PickUpGroupParcelCommand{}, err
	}
	return PickUpGroupParcelCommand{
		groupID:  groupID,
		parcelID: parcelID,
		agentID:  agentID,
		otp:      otp,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c PickUpGroupParcelCommand) Validate() error {
	return c.guard.Validate(ErrPickUpGroupParcelCommandIsNotConstructed)
}

func (c PickUpGroupParcelCommand) GroupID() kernel.UUID  { return c.groupID }
func (c PickUpGroupParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c PickUpGroupParcelCommand) AgentID() kernel.UUID  { return c.agentID }
func (c PickUpGroupParcelCommand) Otp() string           { return c.otp }
