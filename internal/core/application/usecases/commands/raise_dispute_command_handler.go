package commands

import (
	"context"

	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/ports"

	"go.uber.org/zap"
)

// RaiseDisputeCommandHandler marks a pending earning disputed and holds its entries, so
// the clearance sweep skips them until the dispute is resolved.
type RaiseDisputeCommandHandler struct {
	rt Runtime
}

func NewRaiseDisputeCommandHandler(rt Runtime) RaiseDisputeCommandHandler {
	return RaiseDisputeCommandHandler{rt: rt}
}

func (h RaiseDisputeCommandHandler) Handle(ctx context.Context, cmd RaiseDisputeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		repo := uow.LedgerRepository()
		e, err := repo.GetEarningByParcel(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if err = e.RaiseDispute(); err != nil {
			return err
		}
		if err = repo.UpdateEarning(ctx, e); err != nil {
			return err
		}
		return setHeld(ctx, repo, e, true)
	})
	if err == nil {
		h.rt.logger().Info("dispute raised",
			zap.Stringer("parcel_id", cmd.ParcelID()),
			zap.String("reason", cmd.Reason()),
		)
	}
	return err
}

// setHeld puts the pending entries of an earning on hold or lifts the hold.
func setHeld(ctx context.Context, repo ports.LedgerRepository, e *ledger.Earning, held bool) error {
	txs, err := repo.ListTransactionsByParcel(ctx, e.ParcelID())
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if tx.Status() != ledger.TxPending || tx.Held() == held {
			continue
		}
		tx.SetHeld(held)
		if err = repo.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}
