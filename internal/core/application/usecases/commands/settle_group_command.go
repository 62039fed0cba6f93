package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrSettleGroupCommandIsNotConstructed = errors.New(
	"SettleGroupCommand must be created via NewSettleGroupCommand constructor",
)

// SettleGroupCommand pays the leg agents of a completed group.
type SettleGroupCommand struct {
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSettleGroupCommand(groupID kernel.UUID) (SettleGroupCommand, error) {
	if err := groupID.Validate(); err != nil {
		return SettleGroupCommand{}, err
	}
	return SettleGroupCommand{groupID: groupID, guard: guard.NewConstructorGuard()}, nil
}

func (c SettleGroupCommand) Validate() error {
	return c.guard.Validate(ErrSettleGroupCommandIsNotConstructed)
}

func (c SettleGroupCommand) GroupID() kernel.UUID { return c.groupID }
