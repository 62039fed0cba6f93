package ledger

import (
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Wallet is the cached balance of one company or agent. It has no mutators of its own:
// balances move only through Post, Clear and Reverse, each driven by a Transaction.
type Wallet struct {
	ownerID     kernel.UUID
	role        Role
	available   decimal.Decimal
	pending     decimal.Decimal
	totalEarned decimal.Decimal
	kernel.Versioned
}

// NewWallet opens an empty wallet.
func NewWallet(ownerID kernel.UUID, role Role) (*Wallet, error) {
	return RestoreWallet(ownerID, role, decimal.Zero, decimal.Zero, decimal.Zero, 0)
}

func RestoreWallet(ownerID kernel.UUID, role Role, available, pending, totalEarned decimal.Decimal, version int64) (*Wallet, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}
	if role != RoleCompany && role != RoleAgent {
		return nil, errs.NewValueIsInvalidError("owner role")
	}
	return &Wallet{
		ownerID:     ownerID,
		role:        role,
		available:   available,
		pending:     pending,
		totalEarned: totalEarned,
		Versioned:   kernel.RestoreVersioned(version),
	}, nil
}

func (w *Wallet) OwnerID() kernel.UUID         { return w.ownerID }
func (w *Wallet) Role() Role                   { return w.role }
func (w *Wallet) Available() decimal.Decimal   { return w.available }
func (w *Wallet) Pending() decimal.Decimal     { return w.pending }
func (w *Wallet) TotalEarned() decimal.Decimal { return w.totalEarned }

// CanWithdraw reports whether amount fits in the available balance.
func (w *Wallet) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() && !amount.GreaterThan(w.available)
}
