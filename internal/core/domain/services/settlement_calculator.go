package services

import (
	"time"

	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// SettlementCalculator turns a delivered parcel's amount into a ledger split using the
// company's negotiated rates, and a completed group into its agents' settlement.
type SettlementCalculator struct {
	bounds company.CommissionBounds
	shares ledger.GroupShares
}

func NewSettlementCalculator(bounds company.CommissionBounds, shares ledger.GroupShares) SettlementCalculator {
	return SettlementCalculator{bounds: bounds, shares: shares}
}

// ParcelSplit splits an individually delivered parcel.
func (c SettlementCalculator) ParcelSplit(comp *company.Company, orderAmount, bonus, tip decimal.Decimal) (ledger.Split, error) {
	if err := c.checkRate(comp); err != nil {
		return ledger.Split{}, err
	}
	return ledger.NewSplit(orderAmount, comp.PlatformCommissionRate(), comp.AgentCommissionRate(), bonus, tip)
}

// GroupMemberSplit splits a parcel delivered as part of a group. Its agents are paid from
// the group settlement, so no per-parcel agent share is taken.
func (c SettlementCalculator) GroupMemberSplit(comp *company.Company, orderAmount decimal.Decimal) (ledger.Split, error) {
	if err := c.checkRate(comp); err != nil {
		return ledger.Split{}, err
	}
	return ledger.NewSplit(orderAmount, comp.PlatformCommissionRate(), decimal.Zero, decimal.Zero, decimal.Zero)
}

// GroupSettlement computes the pickup and delivery agents' earnings of a group whose last
// member has been delivered.
func (c SettlementCalculator) GroupSettlement(g *group.Group, now time.Time) (ledger.GroupSettlement, error) {
	if g.PickupAgentID() == nil || g.DeliveryAgentID() == nil {
		return ledger.GroupSettlement{}, errs.NewDataIntegrityError("group %s has no agent for one of its legs", g.ID())
	}
	return ledger.NewGroupSettlement(g.ID(), g.CompanyID(), *g.PickupAgentID(), *g.DeliveryAgentID(),
		g.TotalGroupValue(), c.shares, now)
}

// checkRate re-validates the stored rate against current bounds.
func (c SettlementCalculator) checkRate(comp *company.Company) error {
	rate := comp.PlatformCommissionRate()
	if rate.LessThan(c.bounds.Min) || rate.GreaterThan(c.bounds.Max) {
		return errs.NewValueIsOutOfRangeError("platform commission rate", rate, c.bounds.Min, c.bounds.Max)
	}
	return nil
}
