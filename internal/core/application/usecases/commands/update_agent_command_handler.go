package commands

import (
	"context"

	"tpts/internal/core/domain/model/agent"
)

// SetAgentAvailabilityCommandHandler toggles whether the agent receives offers. Work the
// agent already accepted is unaffected.
type SetAgentAvailabilityCommandHandler struct {
	rt Runtime
}

func NewSetAgentAvailabilityCommandHandler(rt Runtime) SetAgentAvailabilityCommandHandler {
	return SetAgentAvailabilityCommandHandler{rt: rt}
}

func (h SetAgentAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetAgentAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.rt.updateAgent(ctx, cmd.AgentID(), func(a *agent.Agent) error {
		return a.SetAvailability(cmd.Available())
	})
}

// UpdateAgentLocationCommandHandler stores the latest position, which ranks recently
// seen agents first.
type UpdateAgentLocationCommandHandler struct {
	rt Runtime
}

func NewUpdateAgentLocationCommandHandler(rt Runtime) UpdateAgentLocationCommandHandler {
	return UpdateAgentLocationCommandHandler{rt: rt}
}

func (h UpdateAgentLocationCommandHandler) Handle(ctx context.Context, cmd UpdateAgentLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.rt.updateAgent(ctx, cmd.AgentID(), func(a *agent.Agent) error {
		return a.UpdateLocation(cmd.Location(), h.rt.now())
	})
}
