package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrCompleteGroupPickupCommandIsNotConstructed = errors.New(
	"CompleteGroupPickupCommand must be created via NewCompleteGroupPickupCommand constructor",
)

// CompleteGroupPickupCommand is the pickup agent reporting every member collected.
type CompleteGroupPickupCommand struct {
	groupID kernel.UUID
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteGroupPickupCommand(groupID, agentID kernel.UUID) (CompleteGroupPickupCommand, error) {
	if err := requireIDs(groupID, agentID); err != nil {
		return CompleteGroupPickupCommand{}, err
	}
	return CompleteGroupPickupCommand{groupID: groupID, agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteGroupPickupCommand) Validate() error {
	return c.guard.Validate(ErrCompleteGroupPickupCommandIsNotConstructed)
}

func (c CompleteGroupPickupCommand) GroupID() kernel.UUID { return c.groupID }
func (c CompleteGroupPickupCommand) AgentID() kernel.UUID { return c.agentID }
