package queries

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyEarningsLine is the total of one entry type on the day.
type DailyEarningsLine struct {
	Type    ledger.TxType
	Count   int
	Pending decimal.Decimal
	Cleared decimal.Decimal
}

type GetDailyEarningsQueryResponse struct {
	OwnerID kernel.UUID
	From    time.Time
	To      time.Time
	Lines   []DailyEarningsLine
	Pending decimal.Decimal
	Cleared decimal.Decimal
	Total   decimal.Decimal
}

// GetDailyEarningsQueryHandler aggregates earning, group earning and group cost entries
// created on the day. Reversed entries and payout movements are left out.
type GetDailyEarningsQueryHandler struct {
	db *gorm.DB
}

func NewGetDailyEarningsQueryHandler(db *gorm.DB) GetDailyEarningsQueryHandler {
	return GetDailyEarningsQueryHandler{db: db}
}

func (h GetDailyEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetDailyEarningsQuery,
) (GetDailyEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDailyEarningsQueryResponse{}, err
	}

	day := now.With(query.Day())
	resp := GetDailyEarningsQueryResponse{
		OwnerID: query.OwnerID(),
		From:    day.BeginningOfDay(),
		To:      day.EndOfDay(),
		Lines:   make([]DailyEarningsLine, 0),
		Pending: decimal.Zero,
		Cleared: decimal.Zero,
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			type,
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE status = ?), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = ?), 0)
		FROM ledger_transactions
		WHERE owner_id = ?
			AND type IN ?
			AND status <> ?
			AND created_at BETWEEN ? AND ?
		GROUP BY type
		ORDER BY type
	`,
		int(ledger.TxPending),
		int(ledger.TxCleared),
		query.OwnerID().Bytes(),
		[]int{int(ledger.TxEarning), int(ledger.TxGroupEarning), int(ledger.TxGroupCost)},
		int(ledger.TxReversed),
		resp.From,
		resp.To,
	).Rows()
	if err != nil {
		return GetDailyEarningsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line DailyEarningsLine
		var txType int
		if err = rows.Scan(&txType, &line.Count, &line.Pending, &line.Cleared); err != nil {
			return GetDailyEarningsQueryResponse{}, err
		}
		line.Type = ledger.TxType(txType)
		resp.Lines = append(resp.Lines, line)
		resp.Pending = resp.Pending.Add(line.Pending)
		resp.Cleared = resp.Cleared.Add(line.Cleared)
	}

	if err = rows.Err(); err != nil {
		return GetDailyEarningsQueryResponse{}, err
	}

	resp.Total = resp.Pending.Add(resp.Cleared)
	return resp, nil
}
