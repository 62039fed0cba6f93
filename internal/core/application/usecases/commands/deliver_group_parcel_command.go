package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrDeliverGroupParcelCommandIsNotConstructed = errors.New(
	"DeliverGroupParcelCommand must be created via NewDeliverGroupParcelCommand constructor",
)

// DeliverGroupParcelCommand is the delivery agent of a group handing one member parcel
// to its recipient against the delivery OTP.
type DeliverGroupParcelCommand struct {
	groupID  kernel.UUID
	parcelID kernel.UUID
	agentID  kernel.UUID
	otp      string
	proof    *Document

	guard guard.ConstructorGuard
}

func NewDeliverGroupParcelCommand(
	groupID, parcelID, agentID kernel.UUID,
	otp string,
	proof *Document,
) (DeliverGroupParcelCommand, error) {
	if err := errors.Join(requireIDs(groupID, parcelID, agentID), proof.validate()); err != nil {
		return DeliverGroupParcelCommand{}, err
	}
	return DeliverGroupParcelCommand{
		groupID:  groupID,
		parcelID: parcelID,
		agentID:  agentID,
		otp:      otp,
		proof:    proof,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverGroupParcelCommand) Validate() error {
	return c.guard.Validate(ErrDeliverGroupParcelCommandIsNotConstructed)
}

func (c DeliverGroupParcelCommand) GroupID() kernel.UUID  { return c.groupID }
func (c DeliverGroupParcelCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c DeliverGroupParcelCommand) AgentID() kernel.UUID  { return c.agentID }
func (c DeliverGroupParcelCommand) Otp() string           { return c.otp }
func (c DeliverGroupParcelCommand) Proof() *Document      { return c.proof }
