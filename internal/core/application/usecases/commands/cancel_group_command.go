package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrCancelGroupCommandIsNotConstructed = errors.New(
	"CancelGroupCommand must be created via NewCancelGroupCommand constructor",
)

// CancelGroupCommand is the company calling off a group before its pickup started.
type CancelGroupCommand struct {
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelGroupCommand(groupID kernel.UUID) (CancelGroupCommand, error) {
	if err := groupID.Validate(); err != nil {
		return CancelGroupCommand{}, err
	}
	return CancelGroupCommand{groupID: groupID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelGroupCommand) Validate() error {
	return c.guard.Validate(ErrCancelGroupCommandIsNotConstructed)
}

func (c CancelGroupCommand) GroupID() kernel.UUID { return c.groupID }
