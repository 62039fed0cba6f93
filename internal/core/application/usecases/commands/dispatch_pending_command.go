package commands

import (
	"errors"

	"tpts/internal/pkg/guard"
)

var ErrDispatchPendingCommandIsNotConstructed = errors.New(
	"DispatchPendingCommand must be created via NewDispatchPendingCommand constructor",
)

// DispatchPendingCommand offers every confirmed parcel and every waiting group leg that
// has no active offer yet.
type DispatchPendingCommand struct {
	guard guard.ConstructorGuard
}

func NewDispatchPendingCommand() DispatchPendingCommand {
	return DispatchPendingCommand{guard: guard.NewConstructorGuard()}
}

func (c DispatchPendingCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingCommandIsNotConstructed)
}
