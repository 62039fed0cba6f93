package commands

import (
	"context"

	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/ports"
)

// ResolveDisputeCommandHandler lifts the hold of a disputed earning. With a refund the
// earning and its pending entries are reversed and the customer's payment is returned
// after commit; a refund the gateway refuses is reported as errs.ErrRefundFailed while the
// reversal stands.
type ResolveDisputeCommandHandler struct {
	rt Runtime
}

func NewResolveDisputeCommandHandler(rt Runtime) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{rt: rt}
}

func (h ResolveDisputeCommandHandler) Handle(ctx context.Context, cmd ResolveDisputeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		repo := uow.LedgerRepository()
		e, err := repo.GetEarningByParcel(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if err = e.ResolveDispute(cmd.Refund()); err != nil {
			return err
		}
		if err = repo.UpdateEarning(ctx, e); err != nil {
			return err
		}
		if !cmd.Refund() {
			return setHeld(ctx, repo, e, false)
		}

		txs, err := repo.ListTransactionsByParcel(ctx, e.ParcelID())
		if err != nil {
			return err
		}
		pending := make([]*ledger.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Status() == ledger.TxPending {
				pending = append(pending, tx)
			}
		}
		if err = newLedgerPoster(repo).reverseEntries(ctx, pending...); err != nil {
			return err
		}

		parcels := uow.ParcelRepository()
		p, err := parcels.Get(ctx, e.ParcelID())
		if err != nil {
			return err
		}
		if err = p.MarkRefunded(); err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		fx.refund(ports.RefundRequest{
			ParcelID:   p.ID(),
			PaymentRef: p.PaymentRef(),
			Amount:     p.Pricing().Total(),
			Reason:     "dispute resolved with refund",
		})
		return nil
	})
}
