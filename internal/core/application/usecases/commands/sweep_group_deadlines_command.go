package commands

import (
	"errors"

	"tpts/internal/pkg/guard"
)

var ErrSweepGroupDeadlinesCommandIsNotConstructed = errors.New(
	"SweepGroupDeadlinesCommand must be created via NewSweepGroupDeadlinesCommand constructor",
)

// SweepGroupDeadlinesCommand closes Open groups whose deadline has passed.
type SweepGroupDeadlinesCommand struct {
	guard guard.ConstructorGuard
}

func NewSweepGroupDeadlinesCommand() SweepGroupDeadlinesCommand {
	return SweepGroupDeadlinesCommand{guard: guard.NewConstructorGuard()}
}

func (c SweepGroupDeadlinesCommand) Validate() error {
	return c.guard.Validate(ErrSweepGroupDeadlinesCommandIsNotConstructed)
}
