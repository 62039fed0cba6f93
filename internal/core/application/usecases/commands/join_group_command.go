package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrJoinGroupCommandIsNotConstructed = errors.New(
	"JoinGroupCommand must be created via NewJoinGroupCommand constructor",
)

// JoinGroupCommand adds a customer's confirmed parcel to an open group.
type JoinGroupCommand struct {
	groupID  kernel.UUID
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewJoinGroupCommand(groupID, parcelID kernel.UUID) (JoinGroupCommand, error) {
	if err := requireIDs(groupID, parcelID); err != nil {
		return JoinGroupCommand{}, err
	}
	return JoinGroupCommand{groupID: groupID, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (c JoinGroupCommand) Validate() error {
	return c.guard.Validate(ErrJoinGroupCommandIsNotConstructed)
}

func (c JoinGroupCommand) GroupID() kernel.UUID  { return c.groupID }
func (c JoinGroupCommand) ParcelID() kernel.UUID { return c.parcelID }
