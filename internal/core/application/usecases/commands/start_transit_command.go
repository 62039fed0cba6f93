package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrStartTransitCommandIsNotConstructed = errors.New(
	"StartTransitCommand must be created via NewStartTransitCommand constructor",
)

// StartTransitCommand is the holding agent leaving with a picked-up parcel.
type StartTransitCommand struct {
	parcelID kernel.UUID
	agentID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartTransitCommand(parcelID, agentID kernel.UUID) (StartTransitCommand, error) {
	if err := requireIDs(parcelID, agentID); err != nil {
		return StartTransitCommand{}, err
	}
	return StartTransitCommand{parcelID: parcelID, agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartTransitCommand) Validate() error {
	return c.guard.Validate(ErrStartTransitCommandIsNotConstructed)
}

func (c StartTransitCommand) ParcelID() kernel.UUID { return c.parcelID }
func (c StartTransitCommand) AgentID() kernel.UUID  { return c.agentID }
