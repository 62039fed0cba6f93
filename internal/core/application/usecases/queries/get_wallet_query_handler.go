package queries

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetWalletQueryResponse is the payee's balance. A payee who has never been credited has
// no wallet row and gets errs.ErrObjectNotFound.
type GetWalletQueryResponse struct {
	OwnerID     kernel.UUID
	Role        ledger.Role
	Available   decimal.Decimal
	Pending     decimal.Decimal
	TotalEarned decimal.Decimal
}

type GetWalletQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletQueryHandler(db *gorm.DB) GetWalletQueryHandler {
	return GetWalletQueryHandler{db: db}
}

func (h GetWalletQueryHandler) Handle(ctx context.Context, query GetWalletQuery) (GetWalletQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWalletQueryResponse{}, err
	}

	var row struct {
		Role        int
		Available   decimal.Decimal
		Pending     decimal.Decimal
		TotalEarned decimal.Decimal
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT role, available, pending, total_earned
		FROM wallets
		WHERE owner_id = ?
	`, query.OwnerID().Bytes()).Scan(&row)
	if result.Error != nil {
		return GetWalletQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetWalletQueryResponse{}, errs.NewObjectNotFoundError("wallet", query.OwnerID())
	}

	return GetWalletQueryResponse{
		OwnerID:     query.OwnerID(),
		Role:        ledger.Role(row.Role),
		Available:   row.Available,
		Pending:     row.Pending,
		TotalEarned: row.TotalEarned,
	}, nil
}
