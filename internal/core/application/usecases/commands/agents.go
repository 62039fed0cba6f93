package commands

import (
	"context"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"
)

// releaseAgent frees one order slot of the agent.
func releaseAgent(ctx context.Context, uow UoW, agentID kernel.UUID) error {
	repo := uow.AgentRepository()
	a, err := repo.Get(ctx, agentID)
	if err != nil {
		return err
	}
	a.ReleaseSlot()
	return repo.Update(ctx, a)
}

// occupyAgent takes one order slot, failing with errs.ErrAgentNotAvailable when the agent
// went offline or filled up since the offer was made.
func occupyAgent(ctx context.Context, uow UoW, agentID kernel.UUID) error {
	repo := uow.AgentRepository()
	a, err := repo.Get(ctx, agentID)
	if err != nil {
		return err
	}
	if err = a.TakeSlot(); err != nil {
		return err
	}
	return repo.Update(ctx, a)
}

// updateAgent applies change to one agent in its own unit of work.
func (rt Runtime) updateAgent(ctx context.Context, agentID kernel.UUID, change func(a *agent.Agent) error) error {
	return rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		repo := uow.AgentRepository()
		a, err := repo.Get(ctx, agentID)
		if err != nil {
			return err
		}
		if err = change(a); err != nil {
			return err
		}
		return repo.Update(ctx, a)
	})
}
