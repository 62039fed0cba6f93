package ledgerrepo

import (
	"context"
	"fmt"
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"

	"gorm.io/gorm"
)

// GormLedgerRepository implements ports.LedgerRepository using GORM. Transactions have no
// version: they are append-only and the only mutable columns (status, held) change under
// the version check of the wallet or earning that drives them.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) AddEarning(ctx context.Context, e *ledger.Earning) error {
	if err := e.Validate(); err != nil {
		return err
	}
	dto := earningFromDomain(e)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "earning", e.ID())
}

func (r *GormLedgerRepository) UpdateEarning(ctx context.Context, e *ledger.Earning) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := earningFromDomain(e)
	dto.Version = e.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&EarningDTO{}).
		Where("id = ? AND version = ?", dto.ID, e.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "earning", e.ID()); err != nil {
		return err
	}

	e.MarkPersisted(dto.Version)
	return nil
}

func (r *GormLedgerRepository) GetEarningByParcel(ctx context.Context, parcelID kernel.UUID) (*ledger.Earning, error) {
	var dto EarningDTO
	err := r.db.WithContext(ctx).First(&dto, "parcel_id = ?", parcelID.Bytes()).Error
	if err = columns.CheckFound(err, "earning of parcel", parcelID); err != nil {
		return nil, err
	}
	return earningToDomain(dto)
}

func (r *GormLedgerRepository) ListDueEarnings(ctx context.Context, now time.Time, limit int) ([]*ledger.Earning, error) {
	var dtos []EarningDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND disputed = ? AND clears_at <= ?", int(ledger.EarningPending), false, now).
		Order("clears_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	res := make([]*ledger.Earning, 0, len(dtos))
	for _, dto := range dtos {
		e, err := earningToDomain(dto)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func (r *GormLedgerRepository) AddTransaction(ctx context.Context, tx *ledger.Transaction) error {
	dto := transactionFromDomain(tx)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "transaction", tx.ID())
}

// UpdateTransaction only ever touches status and the hold flag.
func (r *GormLedgerRepository) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ?", tx.ID().Bytes()).
		Updates(map[string]any{
			"status": int(tx.Status()),
			"held":   tx.Held(),
		})
	if result.Error != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID(), result.Error)
	}
	if result.RowsAffected == 0 {
		return columns.CheckFound(gorm.ErrRecordNotFound, "transaction", tx.ID())
	}
	return nil
}

func (r *GormLedgerRepository) GetTransaction(ctx context.Context, id kernel.UUID) (*ledger.Transaction, error) {
	var dto TransactionDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err = columns.CheckFound(err, "transaction", id); err != nil {
		return nil, err
	}
	return transactionToDomain(dto)
}

func (r *GormLedgerRepository) ListTransactionsByParcel(ctx context.Context, parcelID kernel.UUID) ([]*ledger.Transaction, error) {
	var dtos []TransactionDTO
	if err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return transactionList(dtos)
}

func (r *GormLedgerRepository) ListDueTransactions(ctx context.Context, now time.Time, limit int) ([]*ledger.Transaction, error) {
	var dtos []TransactionDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND held = ? AND clears_at <= ?", int(ledger.TxPending), false, now).
		Order("clears_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return transactionList(dtos)
}

func (r *GormLedgerRepository) GetWallet(ctx context.Context, ownerID kernel.UUID) (*ledger.Wallet, error) {
	var dto WalletDTO
	err := r.db.WithContext(ctx).First(&dto, "owner_id = ?", ownerID.Bytes()).Error
	if err = columns.CheckFound(err, "wallet", ownerID); err != nil {
		return nil, err
	}
	return walletToDomain(dto)
}

// AddWallet fails with a concurrent modification when another writer opened the same
// wallet first; the retried cycle then finds it.
func (r *GormLedgerRepository) AddWallet(ctx context.Context, w *ledger.Wallet) error {
	dto := walletFromDomain(w)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "wallet", w.OwnerID())
}

func (r *GormLedgerRepository) UpdateWallet(ctx context.Context, w *ledger.Wallet) error {
	dto := walletFromDomain(w)
	dto.Version = w.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&WalletDTO{}).
		Where("owner_id = ? AND version = ?", dto.OwnerID, w.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "wallet", w.OwnerID()); err != nil {
		return err
	}

	w.MarkPersisted(dto.Version)
	return nil
}

func (r *GormLedgerRepository) AddPayout(ctx context.Context, p *ledger.Payout) error {
	dto := payoutFromDomain(p)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "payout", p.ID())
}

func (r *GormLedgerRepository) UpdatePayout(ctx context.Context, p *ledger.Payout) error {
	dto := payoutFromDomain(p)
	dto.Version = p.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&PayoutDTO{}).
		Where("id = ? AND version = ?", dto.ID, p.Version()).
		Select("*").
		Updates(&dto)
	if err := columns.CheckVersioned(result, "payout", p.ID()); err != nil {
		return err
	}

	p.MarkPersisted(dto.Version)
	return nil
}

func (r *GormLedgerRepository) GetPayout(ctx context.Context, id kernel.UUID) (*ledger.Payout, error) {
	var dto PayoutDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err = columns.CheckFound(err, "payout", id); err != nil {
		return nil, err
	}
	return payoutToDomain(dto)
}

func (r *GormLedgerRepository) AddGroupSettlement(ctx context.Context, s ledger.GroupSettlement) error {
	dto := settlementFromDomain(s)
	return columns.CheckInsert(r.db.WithContext(ctx).Create(&dto).Error, "group settlement", s.GroupID)
}

func (r *GormLedgerRepository) HasGroupSettlement(ctx context.Context, groupID kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&GroupSettlementDTO{}).
		Where("group_id = ?", groupID.Bytes()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func transactionList(dtos []TransactionDTO) ([]*ledger.Transaction, error) {
	res := make([]*ledger.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := transactionToDomain(dto)
		if err != nil {
			return nil, err
		}
		res = append(res, tx)
	}
	return res, nil
}
