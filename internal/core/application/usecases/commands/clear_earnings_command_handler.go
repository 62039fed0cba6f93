package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/metrics"
)

// Cleared counts what one clearance run moved.
type Cleared struct {
	Earnings     int
	Transactions int
}

// ClearEarningsCommandHandler clears pending, unheld entries whose clearsAt has passed,
// moving their amounts from pending to available, and marks the earnings behind them
// cleared. Disputed earnings and held entries wait. Running it twice clears nothing the
// second time.
type ClearEarningsCommandHandler struct {
	rt Runtime
}

func NewClearEarningsCommandHandler(rt Runtime) ClearEarningsCommandHandler {
	return ClearEarningsCommandHandler{rt: rt}
}

func (h ClearEarningsCommandHandler) Handle(ctx context.Context, cmd ClearEarningsCommand) (Cleared, error) {
	if err := cmd.Validate(); err != nil {
		return Cleared{}, err
	}

	var (
		res Cleared
		err error
	)
	res.Transactions, err = h.rt.sweep(ctx, "clearance", h.dueTransactions, h.clearTransaction)
	if err != nil {
		return res, err
	}
	res.Earnings, err = h.rt.sweep(ctx, "clearance", h.dueEarnings, h.clearEarning)
	return res, err
}

func (h ClearEarningsCommandHandler) dueTransactions(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.LedgerRepository().ListDueTransactions(ctx, h.rt.now(), h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, tx := range found {
		ids = append(ids, tx.ID())
	}
	return ids, nil
}

func (h ClearEarningsCommandHandler) clearTransaction(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error) {
	repo := uow.LedgerRepository()
	tx, err := repo.GetTransaction(ctx, id)
	if err != nil {
		return false, err
	}
	n, err := newLedgerPoster(repo).clearEntries(ctx, h.rt.now(), tx)
	if err != nil || n == 0 {
		return false, err
	}
	fx.count(metrics.SweepRows.WithLabelValues("clearance_entry"))
	return true, nil
}

func (h ClearEarningsCommandHandler) dueEarnings(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.LedgerRepository().ListDueEarnings(ctx, h.rt.now(), h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, e := range found {
		ids = append(ids, e.ParcelID())
	}
	return ids, nil
}

func (h ClearEarningsCommandHandler) clearEarning(ctx context.Context, uow UoW, parcelID kernel.UUID, fx *effects) (bool, error) {
	repo := uow.LedgerRepository()
	e, err := repo.GetEarningByParcel(ctx, parcelID)
	if err != nil {
		return false, err
	}
	if !e.Clear(h.rt.now()) {
		return false, nil
	}
	if err = repo.UpdateEarning(ctx, e); err != nil {
		return false, err
	}
	fx.count(metrics.SweepRows.WithLabelValues("clearance"))
	return true, nil
}
