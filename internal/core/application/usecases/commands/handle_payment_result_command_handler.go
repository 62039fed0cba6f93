package commands

import (
	"context"

	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
)

// HandlePaymentResultCommandHandler confirms a paid parcel or records a failed payment.
// A failed payment is stored and then reported as errs.ErrPaymentFailed; a repeated
// success callback is rejected with errs.ErrPaymentAlreadyProcessed.
//
// Confirmed parcels are not dispatched here. The pending dispatch job offers them, which
// leaves the customer a window to join a group first.
type HandlePaymentResultCommandHandler struct {
	rt Runtime
}

func NewHandlePaymentResultCommandHandler(rt Runtime) HandlePaymentResultCommandHandler {
	return HandlePaymentResultCommandHandler{rt: rt}
}

func (h HandlePaymentResultCommandHandler) Handle(ctx context.Context, cmd HandlePaymentResultCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		repo := uow.ParcelRepository()
		p, err := repo.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}

		if !cmd.Success() {
			if err = p.MarkPaymentFailed(); err != nil {
				return err
			}
			if err = repo.Update(ctx, p); err != nil {
				return err
			}
			fx.notify(p.CustomerID(), ports.NotifyPaymentFailed, map[string]string{
				"parcel_id": p.ID().String(),
			})
			return reportAfterCommit(errs.ErrPaymentFailed)
		}

		if err = p.MarkPaid(cmd.Reference(), h.rt.now()); err != nil {
			return err
		}
		if err = repo.Update(ctx, p); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyParcelConfirmed, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
		})
		return nil
	})
}
