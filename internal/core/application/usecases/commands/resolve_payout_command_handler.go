package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/ports"
)

// ApprovePayoutCommandHandler marks a requested payout processed. The amount already left
// the available balance when it was requested. A payout that is no longer Requested fails
// with errs.ErrPaymentAlreadyProcessed.
type ApprovePayoutCommandHandler struct {
	rt Runtime
}

func NewApprovePayoutCommandHandler(rt Runtime) ApprovePayoutCommandHandler {
	return ApprovePayoutCommandHandler{rt: rt}
}

func (h ApprovePayoutCommandHandler) Handle(ctx context.Context, cmd ApprovePayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		repo := uow.LedgerRepository()
		p, err := repo.GetPayout(ctx, cmd.PayoutID())
		if err != nil {
			return err
		}
		if err = p.Approve(cmd.Reference(), h.rt.now()); err != nil {
			return err
		}
		if err = repo.UpdatePayout(ctx, p); err != nil {
			return err
		}
		notifyPayout(fx, p)
		return nil
	})
}

// RejectPayoutCommandHandler refuses a requested payout and releases its reserve back to
// the available balance.
type RejectPayoutCommandHandler struct {
	rt Runtime
}

func NewRejectPayoutCommandHandler(rt Runtime) RejectPayoutCommandHandler {
	return RejectPayoutCommandHandler{rt: rt}
}

func (h RejectPayoutCommandHandler) Handle(ctx context.Context, cmd RejectPayoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		repo := uow.LedgerRepository()

		p, err := repo.GetPayout(ctx, cmd.PayoutID())
		if err != nil {
			return err
		}
		if err = p.Reject(cmd.Reason(), now); err != nil {
			return err
		}
		if err = repo.UpdatePayout(ctx, p); err != nil {
			return err
		}

		id := p.ID()
		release, err := ledger.NewClearedEntry(p.OwnerID(), p.Role(), ledger.TxPayoutRelease, p.Amount(),
			ledger.References{PayoutID: &id}, "payout rejected", now)
		if err != nil {
			return err
		}
		if err = newLedgerPoster(repo).appendEntries(ctx, release); err != nil {
			return err
		}
		notifyPayout(fx, p)
		return nil
	})
}

func notifyPayout(fx *effects, p *ledger.Payout) {
	fx.notify(p.OwnerID(), ports.NotifyPayoutResolved, map[string]string{
		"payout_id": p.ID().String(),
		"status":    p.Status().String(),
		"amount":    p.Amount().StringFixed(kernel.CurrencyScale),
		"reference": p.Reference(),
		"reason":    p.Reason(),
	})
}
