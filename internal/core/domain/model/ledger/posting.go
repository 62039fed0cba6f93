package ledger

import (
	"time"

	"tpts/internal/pkg/errs"
)

// Post applies a new entry to its owner's wallet. Pending entries add to the pending
// balance; cleared entries add to the available balance, which may not go below zero.
func Post(w *Wallet, tx *Transaction) error {
	if err := sameOwner(w, tx); err != nil {
		return err
	}

	switch tx.status {
	case TxPending:
		w.pending = w.pending.Add(tx.amount)
	case TxCleared:
		next := w.available.Add(tx.amount)
		if next.IsNegative() {
			return errs.ErrInsufficientFunds
		}
		w.available = next
	case TxReversed, TxStatusUnknown:
		return errs.NewDataIntegrityError("transaction %s posted in status %s", tx.id, tx.status)
	}

	if tx.txType.countsAsEarning() {
		w.totalEarned = w.totalEarned.Add(tx.amount)
	}
	return nil
}

// Clear moves a due entry from pending to available. It returns false, without error, for
// entries that are not due, held or already settled.
func Clear(w *Wallet, tx *Transaction, now time.Time) (bool, error) {
	if err := sameOwner(w, tx); err != nil {
		return false, err
	}
	if !tx.IsDue(now) {
		return false, nil
	}

	w.pending = w.pending.Sub(tx.amount)
	w.available = w.available.Add(tx.amount)
	tx.status = TxCleared
	return true, nil
}

// Reverse cancels a pending entry, as when a disputed parcel is refunded.
func Reverse(w *Wallet, tx *Transaction) error {
	if err := sameOwner(w, tx); err != nil {
		return err
	}
	if tx.status != TxPending {
		return errs.NewInvalidStatusTransitionError("transaction", tx.status.String(), TxReversed.String())
	}

	w.pending = w.pending.Sub(tx.amount)
	if tx.txType.countsAsEarning() {
		w.totalEarned = w.totalEarned.Sub(tx.amount)
	}
	tx.status = TxReversed
	tx.held = false
	return nil
}

func sameOwner(w *Wallet, tx *Transaction) error {
	if !w.ownerID.IsEqual(tx.ownerID) {
		return errs.NewDataIntegrityError("transaction %s of %s applied to wallet of %s", tx.id, tx.ownerID, w.ownerID)
	}
	return nil
}
