package commands

import (
	"context"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"
)

// RegisterAgentCommandHandler creates an active agent who is offline until they set
// themselves available.
type RegisterAgentCommandHandler struct {
	rt Runtime
}

func NewRegisterAgentCommandHandler(rt Runtime) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{rt: rt}
}

func (h RegisterAgentCommandHandler) Handle(ctx context.Context, cmd RegisterAgentCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	a, err := agent.NewAgent(kernel.NewUUID(), cmd.CompanyID(), cmd.Name(), cmd.Phone(), cmd.City(),
		cmd.ServicePincodes(), cmd.MaxConcurrentOrders())
	if err != nil {
		return kernel.UUID{}, err
	}

	err = h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		if _, err := uow.CompanyRepository().Get(ctx, cmd.CompanyID()); err != nil {
			return err
		}
		return uow.AgentRepository().Add(ctx, a)
	})
	if err != nil {
		return kernel.UUID{}, err
	}
	return a.ID(), nil
}
