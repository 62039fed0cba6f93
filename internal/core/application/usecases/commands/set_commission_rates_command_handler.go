package commands

import "context"

type SetCommissionRatesCommandHandler struct {
	rt Runtime
}

func NewSetCommissionRatesCommandHandler(rt Runtime) SetCommissionRatesCommandHandler {
	return SetCommissionRatesCommandHandler{rt: rt}
}

func (h SetCommissionRatesCommandHandler) Handle(ctx context.Context, cmd SetCommissionRatesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		repo := uow.CompanyRepository()
		c, err := repo.Get(ctx, cmd.CompanyID())
		if err != nil {
			return err
		}
		if err = c.SetCommissionRates(cmd.PlatformRate(), cmd.AgentRate(), h.rt.Policy.Settlement.CommissionBounds); err != nil {
			return err
		}
		return repo.Update(ctx, c)
	})
}
