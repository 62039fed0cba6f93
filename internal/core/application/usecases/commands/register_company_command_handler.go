package commands

import (
	"context"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/kernel"
)

// RegisterCompanyCommandHandler stores a new company. Its platform rate must lie within
// the policy's commission bounds.
type RegisterCompanyCommandHandler struct {
	rt Runtime
}

func NewRegisterCompanyCommandHandler(rt Runtime) RegisterCompanyCommandHandler {
	return RegisterCompanyCommandHandler{rt: rt}
}

func (h RegisterCompanyCommandHandler) Handle(ctx context.Context, cmd RegisterCompanyCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	c, err := company.NewCompany(kernel.NewUUID(), cmd.Name(), cmd.City(), cmd.PlatformRate(), cmd.AgentRate(),
		h.rt.Policy.Settlement.CommissionBounds)
	if err != nil {
		return kernel.UUID{}, err
	}

	err = h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		return uow.CompanyRepository().Add(ctx, c)
	})
	if err != nil {
		return kernel.UUID{}, err
	}
	return c.ID(), nil
}
