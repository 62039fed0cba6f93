package commands

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var (
	ErrSetAgentAvailabilityCommandIsNotConstructed = errors.New(
		"SetAgentAvailabilityCommand must be created via NewSetAgentAvailabilityCommand constructor",
	)
	ErrUpdateAgentLocationCommandIsNotConstructed = errors.New(
		"UpdateAgentLocationCommand must be created via NewUpdateAgentLocationCommand constructor",
	)
)

// SetAgentAvailabilityCommand is an agent going on or off duty.
type SetAgentAvailabilityCommand struct {
	agentID   kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewSetAgentAvailabilityCommand(agentID kernel.UUID, available bool) (SetAgentAvailabilityCommand, error) {
	if err := agentID.Validate(); err != nil {
		return SetAgentAvailabilityCommand{}, err
	}
	return SetAgentAvailabilityCommand{agentID: agentID, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c SetAgentAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAgentAvailabilityCommandIsNotConstructed)
}

func (c SetAgentAvailabilityCommand) AgentID() kernel.UUID { return c.agentID }
func (c SetAgentAvailabilityCommand) Available() bool      { return c.available }

// UpdateAgentLocationCommand is a position report from the agent's device.
type UpdateAgentLocationCommand struct {
	agentID  kernel.UUID
	location kernel.Coordinates

	guard guard.ConstructorGuard
}

func NewUpdateAgentLocationCommand(agentID kernel.UUID, location kernel.Coordinates) (UpdateAgentLocationCommand, error) {
	if err := errors.Join(agentID.Validate(), location.Validate()); err != nil {
		return UpdateAgentLocationCommand{}, err
	}
	return UpdateAgentLocationCommand{agentID: agentID, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateAgentLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAgentLocationCommandIsNotConstructed)
}

func (c UpdateAgentLocationCommand) AgentID() kernel.UUID         { return c.agentID }
func (c UpdateAgentLocationCommand) Location() kernel.Coordinates { return c.location }
