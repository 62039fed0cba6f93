package http

import (
	"time"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/application/usecases/queries"
	"tpts/internal/core/domain/model/ledger"

	"github.com/shopspring/decimal"
)

type Created struct {
	ID string `json:"id"`
}

type CreatedParcel struct {
	ID             string          `json:"id"`
	TrackingNumber string          `json:"trackingNumber"`
	Total          decimal.Decimal `json:"total"`
}

type CreatedGroup struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type JoinedGroup struct {
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Refund     decimal.Decimal `json:"refund"`
	Closed     bool            `json:"closed"`
}

type Split struct {
	OrderAmount        decimal.Decimal `json:"orderAmount"`
	PlatformRate       decimal.Decimal `json:"platformRate"`
	AgentRate          decimal.Decimal `json:"agentRate"`
	PlatformCommission decimal.Decimal `json:"platformCommission"`
	CompanyNetEarning  decimal.Decimal `json:"companyNetEarning"`
	AgentEarning       decimal.Decimal `json:"agentEarning"`
	AgentBonus         decimal.Decimal `json:"agentBonus"`
	CustomerTip        decimal.Decimal `json:"customerTip"`
}

func splitResponse(s ledger.Split) Split {
	return Split{
		OrderAmount:        s.OrderAmount,
		PlatformRate:       s.PlatformRate,
		AgentRate:          s.AgentRate,
		PlatformCommission: s.PlatformCommission,
		CompanyNetEarning:  s.CompanyNetEarning,
		AgentEarning:       s.AgentEarning,
		AgentBonus:         s.AgentBonus,
		CustomerTip:        s.CustomerTip,
	}
}

type GroupSettlement struct {
	ID               string          `json:"id"`
	GroupID          string          `json:"groupId"`
	PickupAgentID    string          `json:"pickupAgentId"`
	DeliveryAgentID  string          `json:"deliveryAgentId"`
	TotalGroupValue  decimal.Decimal `json:"totalGroupValue"`
	PickupEarnings   decimal.Decimal `json:"pickupEarnings"`
	DeliveryEarnings decimal.Decimal `json:"deliveryEarnings"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func groupSettlementResponse(s ledger.GroupSettlement) GroupSettlement {
	return GroupSettlement{
		ID:               s.ID.String(),
		GroupID:          s.GroupID.String(),
		PickupAgentID:    s.PickupAgentID.String(),
		DeliveryAgentID:  s.DeliveryAgentID.String(),
		TotalGroupValue:  s.TotalGroupValue,
		PickupEarnings:   s.PickupEarnings,
		DeliveryEarnings: s.DeliveryEarnings,
		CreatedAt:        s.CreatedAt,
	}
}

type Reassignment struct {
	Kind       string `json:"kind"`
	ID         string `json:"id"`
	Reference  string `json:"reference"`
	SourceCity string `json:"sourceCity"`
	TargetCity string `json:"targetCity"`
	Status     string `json:"status"`
}

type Wallet struct {
	OwnerID     string          `json:"ownerId"`
	Role        string          `json:"role"`
	Available   decimal.Decimal `json:"available"`
	Pending     decimal.Decimal `json:"pending"`
	TotalEarned decimal.Decimal `json:"totalEarned"`
}

type EarningsLine struct {
	Type    string          `json:"type"`
	Count   int             `json:"count"`
	Pending decimal.Decimal `json:"pending"`
	Cleared decimal.Decimal `json:"cleared"`
}

type DailyEarnings struct {
	OwnerID string          `json:"ownerId"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Lines   []EarningsLine  `json:"lines"`
	Pending decimal.Decimal `json:"pending"`
	Cleared decimal.Decimal `json:"cleared"`
	Total   decimal.Decimal `json:"total"`
}

func dailyEarningsResponse(r queries.GetDailyEarningsQueryResponse) DailyEarnings {
	lines := make([]EarningsLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = EarningsLine{Type: l.Type.String(), Count: l.Count, Pending: l.Pending, Cleared: l.Cleared}
	}
	return DailyEarnings{
		OwnerID: r.OwnerID.String(),
		From:    r.From,
		To:      r.To,
		Lines:   lines,
		Pending: r.Pending,
		Cleared: r.Cleared,
		Total:   r.Total,
	}
}

func createdParcelResponse(p commands.CreatedParcel) CreatedParcel {
	return CreatedParcel{ID: p.ParcelID.String(), TrackingNumber: p.TrackingNumber, Total: p.Total}
}
