package commands

import (
	"context"

	"tpts/internal/core/domain/model/ledger"
)

// SettleGroupCommandHandler posts the settlement of a completed group from the earnings
// fixed at completion. It runs once per group; completion normally does it already, so
// a repeat fails with errs.ErrPaymentAlreadyProcessed.
type SettleGroupCommandHandler struct {
	rt Runtime
}

func NewSettleGroupCommandHandler(rt Runtime) SettleGroupCommandHandler {
	return SettleGroupCommandHandler{rt: rt}
}

func (h SettleGroupCommandHandler) Handle(ctx context.Context, cmd SettleGroupCommand) (ledger.GroupSettlement, error) {
	if err := cmd.Validate(); err != nil {
		return ledger.GroupSettlement{}, err
	}

	var settlement ledger.GroupSettlement
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		g, err := uow.GroupRepository().Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}

		s, err := h.rt.calculator().GroupSettlement(g, now)
		if err != nil {
			return err
		}
		// The shares may have changed since completion; the group keeps what it was settled at.
		s.PickupEarnings = g.PickupAgentEarnings()
		s.DeliveryEarnings = g.DeliveryAgentEarnings()

		if err = h.rt.settleGroup(ctx, uow, g, s, now, fx); err != nil {
			return err
		}
		settlement = s
		return nil
	})
	return settlement, err
}
