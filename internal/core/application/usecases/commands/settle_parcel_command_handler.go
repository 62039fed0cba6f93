package commands

import (
	"context"

	"tpts/internal/core/domain/model/ledger"
)

// SettleParcelCommandHandler settles a delivered parcel. A parcel is settled once; a
// second call fails with errs.ErrPaymentAlreadyProcessed.
type SettleParcelCommandHandler struct {
	rt Runtime
}

func NewSettleParcelCommandHandler(rt Runtime) SettleParcelCommandHandler {
	return SettleParcelCommandHandler{rt: rt}
}

func (h SettleParcelCommandHandler) Handle(ctx context.Context, cmd SettleParcelCommand) (ledger.Split, error) {
	if err := cmd.Validate(); err != nil {
		return ledger.Split{}, err
	}

	var split ledger.Split
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		p, err := uow.ParcelRepository().Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		earning, err := h.rt.settleParcel(ctx, uow, p, cmd.Bonus(), cmd.Tip(), h.rt.now(), fx)
		if err != nil {
			return err
		}
		split = earning.Split()
		return nil
	})
	return split, err
}
