package commands

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
)

// ledgerPoster is the only code that changes wallet balances. Each call loads every
// affected wallet once, applies the entries through the ledger package and writes each
// wallet back once under its version check. Two commands posting to the same payee
// therefore conflict on the wallet row and one of them retries.
type ledgerPoster struct {
	repo    ports.LedgerRepository
	wallets map[kernel.UUID]*postedWallet
}

type postedWallet struct {
	wallet *ledger.Wallet
	isNew  bool
}

func newLedgerPoster(repo ports.LedgerRepository) *ledgerPoster {
	return &ledgerPoster{repo: repo, wallets: make(map[kernel.UUID]*postedWallet)}
}

// appendEntries stores new entries and applies them to their owners' wallets.
func (p *ledgerPoster) appendEntries(ctx context.Context, txs ...*ledger.Transaction) error {
	for _, tx := range txs {
		w, err := p.wallet(ctx, tx.OwnerID(), tx.Role())
		if err != nil {
			return err
		}
		if err = ledger.Post(w, tx); err != nil {
			return err
		}
		if err = p.repo.AddTransaction(ctx, tx); err != nil {
			return err
		}
	}
	return p.flush(ctx)
}

// clearEntries moves due entries into the available balance and reports how many moved.
func (p *ledgerPoster) clearEntries(ctx context.Context, now time.Time, txs ...*ledger.Transaction) (int, error) {
	cleared := 0
	for _, tx := range txs {
		w, err := p.wallet(ctx, tx.OwnerID(), tx.Role())
		if err != nil {
			return 0, err
		}
		ok, err := ledger.Clear(w, tx, now)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if err = p.repo.UpdateTransaction(ctx, tx); err != nil {
			return 0, err
		}
		cleared++
	}
	return cleared, p.flush(ctx)
}

// reverseEntries cancels pending entries, as for a refunded dispute.
func (p *ledgerPoster) reverseEntries(ctx context.Context, txs ...*ledger.Transaction) error {
	for _, tx := range txs {
		w, err := p.wallet(ctx, tx.OwnerID(), tx.Role())
		if err != nil {
			return err
		}
		if err = ledger.Reverse(w, tx); err != nil {
			return err
		}
		if err = p.repo.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
	}
	return p.flush(ctx)
}

func (p *ledgerPoster) wallet(ctx context.Context, ownerID kernel.UUID, role ledger.Role) (*ledger.Wallet, error) {
	if pw, ok := p.wallets[ownerID]; ok {
		return pw.wallet, nil
	}

	w, err := p.repo.GetWallet(ctx, ownerID)
	isNew := false
	if errors.Is(err, errs.ErrObjectNotFound) {
		w, err = ledger.NewWallet(ownerID, role)
		isNew = true
	}
	if err != nil {
		return nil, err
	}
	if w.Role() != role {
		return nil, errs.NewDataIntegrityError("wallet of %s has role %s, entry expects %s", ownerID, w.Role(), role)
	}

	p.wallets[ownerID] = &postedWallet{wallet: w, isNew: isNew}
	return w, nil
}

// flush writes wallets in id order, so two postings touching the same wallets lock
// their rows in the same order.
func (p *ledgerPoster) flush(ctx context.Context) error {
	ids := slices.SortedFunc(maps.Keys(p.wallets), kernel.UUID.Compare)
	for _, id := range ids {
		pw := p.wallets[id]
		var err error
		if pw.isNew {
			err = p.repo.AddWallet(ctx, pw.wallet)
		} else {
			err = p.repo.UpdateWallet(ctx, pw.wallet)
		}
		if err != nil {
			return err
		}
		delete(p.wallets, id)
	}
	return nil
}
