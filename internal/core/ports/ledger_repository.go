package ports

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
)

// LedgerRepository persists the settlement ledger. Transactions are append-only: Update
// only ever moves their status or hold flag. Wallets are written exclusively by the
// ledger poster of the command layer.
type LedgerRepository interface {
	AddEarning(ctx context.Context, e *ledger.Earning) error
	UpdateEarning(ctx context.Context, e *ledger.Earning) error
	// GetEarningByParcel returns errs.ErrObjectNotFound when the parcel was never settled.
	GetEarningByParcel(ctx context.Context, parcelID kernel.UUID) (*ledger.Earning, error)
	ListDueEarnings(ctx context.Context, now time.Time, limit int) ([]*ledger.Earning, error)

	AddTransaction(ctx context.Context, tx *ledger.Transaction) error
	UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error
	// GetTransaction returns errs.ErrObjectNotFound when the entry does not exist.
	GetTransaction(ctx context.Context, id kernel.UUID) (*ledger.Transaction, error)
	ListTransactionsByParcel(ctx context.Context, parcelID kernel.UUID) ([]*ledger.Transaction, error)
	ListDueTransactions(ctx context.Context, now time.Time, limit int) ([]*ledger.Transaction, error)

	// GetWallet returns errs.ErrObjectNotFound for an owner that never received an entry.
	GetWallet(ctx context.Context, ownerID kernel.UUID) (*ledger.Wallet, error)
	AddWallet(ctx context.Context, w *ledger.Wallet) error
	UpdateWallet(ctx context.Context, w *ledger.Wallet) error

	AddPayout(ctx context.Context, p *ledger.Payout) error
	UpdatePayout(ctx context.Context, p *ledger.Payout) error
	GetPayout(ctx context.Context, id kernel.UUID) (*ledger.Payout, error)

	AddGroupSettlement(ctx context.Context, s ledger.GroupSettlement) error
	// HasGroupSettlement reports whether the group's agents were already paid.
	HasGroupSettlement(ctx context.Context, groupID kernel.UUID) (bool, error)
}
