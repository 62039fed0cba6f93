// Package ledgerrepo persists the settlement ledger: earnings, the append-only transaction
// log, cached wallet balances, payouts and group settlements.
package ledgerrepo

import (
	"time"

	"tpts/internal/adapters/out/postgres/columns"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningDTO is the earnings row. The unique parcel id is what makes settlement
// exactly-once even when two settlements race.
type EarningDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ParcelID           uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	AgentID            *uuid.UUID      `gorm:"type:uuid;index"`
	OrderAmount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	PlatformRate       decimal.Decimal `gorm:"type:numeric(6,4)"`
	AgentRate          decimal.Decimal `gorm:"type:numeric(6,4)"`
	PlatformCommission decimal.Decimal `gorm:"type:numeric(14,2)"`
	CompanyNetEarning  decimal.Decimal `gorm:"type:numeric(14,2)"`
	AgentEarning       decimal.Decimal `gorm:"type:numeric(14,2)"`
	AgentBonus         decimal.Decimal `gorm:"type:numeric(14,2)"`
	CustomerTip        decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status             int             `gorm:"index"`
	Disputed           bool
	ClearsAt           time.Time `gorm:"index"`
	CreatedAt          time.Time
	ClearedAt          *time.Time
	Version            int64
}

func (EarningDTO) TableName() string {
	return "earnings"
}

// TransactionDTO is one ledger entry.
type TransactionDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index:idx_ledger_transactions_owner_created;not null"`
	Role        int             `gorm:"not null"`
	Type        int             `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status      int             `gorm:"index"`
	Held        bool
	EarningID   *uuid.UUID `gorm:"type:uuid;index"`
	ParcelID    *uuid.UUID `gorm:"type:uuid;index"`
	GroupID     *uuid.UUID `gorm:"type:uuid;index"`
	PayoutID    *uuid.UUID `gorm:"type:uuid;index"`
	Description string
	ClearsAt    time.Time `gorm:"index"`
	CreatedAt   time.Time `gorm:"index:idx_ledger_transactions_owner_created"`
}

func (TransactionDTO) TableName() string {
	return "ledger_transactions"
}

type WalletDTO struct {
	OwnerID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Role        int             `gorm:"not null"`
	Available   decimal.Decimal `gorm:"type:numeric(14,2)"`
	Pending     decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalEarned decimal.Decimal `gorm:"type:numeric(14,2)"`
	Version     int64
}

func (WalletDTO) TableName() string {
	return "wallets"
}

type PayoutDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Role        int             `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status      int             `gorm:"index"`
	Reference   string
	Reason      string
	RequestedAt time.Time
	ResolvedAt  *time.Time
	Version     int64
}

func (PayoutDTO) TableName() string {
	return "payouts"
}

type GroupSettlementDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GroupID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	PickupAgentID    uuid.UUID       `gorm:"type:uuid;not null"`
	DeliveryAgentID  uuid.UUID       `gorm:"type:uuid;not null"`
	TotalGroupValue  decimal.Decimal `gorm:"type:numeric(14,2)"`
	PickupShare      decimal.Decimal `gorm:"type:numeric(6,4)"`
	DeliveryShare    decimal.Decimal `gorm:"type:numeric(6,4)"`
	PickupEarnings   decimal.Decimal `gorm:"type:numeric(14,2)"`
	DeliveryEarnings decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt        time.Time
}

func (GroupSettlementDTO) TableName() string {
	return "group_settlements"
}

func earningFromDomain(e *ledger.Earning) EarningDTO {
	s := e.Split()
	return EarningDTO{
		ID:                 e.ID().Bytes(),
		ParcelID:           e.ParcelID().Bytes(),
		CompanyID:          e.CompanyID().Bytes(),
		AgentID:            columns.UUIDPtr(e.AgentID()),
		OrderAmount:        s.OrderAmount,
		PlatformRate:       s.PlatformRate,
		AgentRate:          s.AgentRate,
		PlatformCommission: s.PlatformCommission,
		CompanyNetEarning:  s.CompanyNetEarning,
		AgentEarning:       s.AgentEarning,
		AgentBonus:         s.AgentBonus,
		CustomerTip:        s.CustomerTip,
		Status:             int(e.Status()),
		Disputed:           e.Disputed(),
		ClearsAt:           e.ClearsAt(),
		CreatedAt:          e.CreatedAt(),
		ClearedAt:          e.ClearedAt(),
		Version:            e.Version(),
	}
}

func earningToDomain(dto EarningDTO) (*ledger.Earning, error) {
	ids, err := columns.ToUUIDs([]uuid.UUID{dto.ID, dto.ParcelID, dto.CompanyID})
	if err != nil {
		return nil, err
	}
	agentID, err := columns.ToUUIDPtr(dto.AgentID)
	if err != nil {
		return nil, err
	}

	return ledger.RestoreEarning(ledger.EarningSnapshot{
		ID:        ids[0],
		ParcelID:  ids[1],
		CompanyID: ids[2],
		AgentID:   agentID,
		Split: ledger.Split{
			OrderAmount:        dto.OrderAmount,
			PlatformRate:       dto.PlatformRate,
			AgentRate:          dto.AgentRate,
			PlatformCommission: dto.PlatformCommission,
			CompanyNetEarning:  dto.CompanyNetEarning,
			AgentEarning:       dto.AgentEarning,
			AgentBonus:         dto.AgentBonus,
			CustomerTip:        dto.CustomerTip,
		},
		Status:    ledger.EarningStatus(dto.Status),
		Disputed:  dto.Disputed,
		ClearsAt:  dto.ClearsAt,
		CreatedAt: dto.CreatedAt,
		ClearedAt: dto.ClearedAt,
		Version:   dto.Version,
	})
}

func transactionFromDomain(tx *ledger.Transaction) TransactionDTO {
	refs := tx.References()
	return TransactionDTO{
		ID:          tx.ID().Bytes(),
		OwnerID:     tx.OwnerID().Bytes(),
		Role:        int(tx.Role()),
		Type:        int(tx.Type()),
		Amount:      tx.Amount(),
		Status:      int(tx.Status()),
		Held:        tx.Held(),
		EarningID:   columns.UUIDPtr(refs.EarningID),
		ParcelID:    columns.UUIDPtr(refs.ParcelID),
		GroupID:     columns.UUIDPtr(refs.GroupID),
		PayoutID:    columns.UUIDPtr(refs.PayoutID),
		Description: tx.Description(),
		ClearsAt:    tx.ClearsAt(),
		CreatedAt:   tx.CreatedAt(),
	}
}

func transactionToDomain(dto TransactionDTO) (*ledger.Transaction, error) {
	ids, err := columns.ToUUIDs([]uuid.UUID{dto.ID, dto.OwnerID})
	if err != nil {
		return nil, err
	}

	var refs ledger.References
	for _, ref := range []struct {
		column *uuid.UUID
		target **kernel.UUID
	}{
		{dto.EarningID, &refs.EarningID},
		{dto.ParcelID, &refs.ParcelID},
		{dto.GroupID, &refs.GroupID},
		{dto.PayoutID, &refs.PayoutID},
	} {
		id, refErr := columns.ToUUIDPtr(ref.column)
		if refErr != nil {
			return nil, refErr
		}
		*ref.target = id
	}

	return ledger.RestoreTransaction(ledger.TransactionSnapshot{
		ID:          ids[0],
		OwnerID:     ids[1],
		Role:        ledger.Role(dto.Role),
		Type:        ledger.TxType(dto.Type),
		Amount:      dto.Amount,
		Status:      ledger.TxStatus(dto.Status),
		Held:        dto.Held,
		References:  refs,
		Description: dto.Description,
		ClearsAt:    dto.ClearsAt,
		CreatedAt:   dto.CreatedAt,
	})
}

func walletFromDomain(w *ledger.Wallet) WalletDTO {
	return WalletDTO{
		OwnerID:     w.OwnerID().Bytes(),
		Role:        int(w.Role()),
		Available:   w.Available(),
		Pending:     w.Pending(),
		TotalEarned: w.TotalEarned(),
		Version:     w.Version(),
	}
}

func walletToDomain(dto WalletDTO) (*ledger.Wallet, error) {
	ownerID, err := columns.ToUUID(dto.OwnerID)
	if err != nil {
		return nil, err
	}
	return ledger.RestoreWallet(ownerID, ledger.Role(dto.Role), dto.Available, dto.Pending, dto.TotalEarned, dto.Version)
}

func payoutFromDomain(p *ledger.Payout) PayoutDTO {
	return PayoutDTO{
		ID:          p.ID().Bytes(),
		OwnerID:     p.OwnerID().Bytes(),
		Role:        int(p.Role()),
		Amount:      p.Amount(),
		Status:      int(p.Status()),
		Reference:   p.Reference(),
		Reason:      p.Reason(),
		RequestedAt: p.RequestedAt(),
		ResolvedAt:  p.ResolvedAt(),
		Version:     p.Version(),
	}
}

func payoutToDomain(dto PayoutDTO) (*ledger.Payout, error) {
	ids, err := columns.ToUUIDs([]uuid.UUID{dto.ID, dto.OwnerID})
	if err != nil {
		return nil, err
	}
	return ledger.RestorePayout(ledger.PayoutSnapshot{
		ID:          ids[0],
		OwnerID:     ids[1],
		Role:        ledger.Role(dto.Role),
		Amount:      dto.Amount,
		Status:      ledger.PayoutStatus(dto.Status),
		Reference:   dto.Reference,
		Reason:      dto.Reason,
		RequestedAt: dto.RequestedAt,
		ResolvedAt:  dto.ResolvedAt,
		Version:     dto.Version,
	})
}

func settlementFromDomain(s ledger.GroupSettlement) GroupSettlementDTO {
	return GroupSettlementDTO{
		ID:               s.ID.Bytes(),
		GroupID:          s.GroupID.Bytes(),
		CompanyID:        s.CompanyID.Bytes(),
		PickupAgentID:    s.PickupAgentID.Bytes(),
		DeliveryAgentID:  s.DeliveryAgentID.Bytes(),
		TotalGroupValue:  s.TotalGroupValue,
		PickupShare:      s.Shares.Pickup,
		DeliveryShare:    s.Shares.Delivery,
		PickupEarnings:   s.PickupEarnings,
		DeliveryEarnings: s.DeliveryEarnings,
		CreatedAt:        s.CreatedAt,
	}
}
