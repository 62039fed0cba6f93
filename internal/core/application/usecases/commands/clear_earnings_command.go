package commands

import (
	"errors"

	"tpts/internal/pkg/guard"
)

var ErrClearEarningsCommandIsNotConstructed = errors.New(
	"ClearEarningsCommand must be created via NewClearEarningsCommand constructor",
)

// ClearEarningsCommand releases ledger entries whose holding period has ended.
type ClearEarningsCommand struct {
	guard guard.ConstructorGuard
}

func NewClearEarningsCommand() ClearEarningsCommand {
	return ClearEarningsCommand{guard: guard.NewConstructorGuard()}
}

func (c ClearEarningsCommand) Validate() error {
	return c.guard.Validate(ErrClearEarningsCommandIsNotConstructed)
}
