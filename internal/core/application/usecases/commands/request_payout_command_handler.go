package commands

import (
	"context"
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/pkg/errs"
)

// RequestPayoutCommandHandler opens a payout and reserves its amount out of the available
// balance at once, so two requests cannot spend the same money. Asking for more than is
// available fails with errs.ErrInsufficientFunds.
type RequestPayoutCommandHandler struct {
	rt Runtime
}

func NewRequestPayoutCommandHandler(rt Runtime) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{rt: rt}
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var payoutID kernel.UUID
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		now := h.rt.now()
		repo := uow.LedgerRepository()

		w, err := repo.GetWallet(ctx, cmd.OwnerID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errs.ErrInsufficientFunds
		}
		if err != nil {
			return err
		}
		if !w.CanWithdraw(cmd.Amount()) {
			return errs.ErrInsufficientFunds
		}

		payout, err := ledger.NewPayout(kernel.NewUUID(), w.OwnerID(), w.Role(), cmd.Amount(), now)
		if err != nil {
			return err
		}
		if err = repo.AddPayout(ctx, payout); err != nil {
			return err
		}

		id := payout.ID()
		reserve, err := ledger.NewClearedEntry(w.OwnerID(), w.Role(), ledger.TxPayoutReserve, cmd.Amount().Neg(),
			ledger.References{PayoutID: &id}, "payout requested", now)
		if err != nil {
			return err
		}
		if err = newLedgerPoster(repo).appendEntries(ctx, reserve); err != nil {
			return err
		}

		payoutID = id
		return nil
	})
	return payoutID, err
}
