package commands

import (
	"context"
	"errors"
	"time"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// settleParcel records the earning of a delivered parcel and credits the company and, for
// individually dispatched parcels, the delivering agent. Both credits wait in the pending
// balance until the holding period ends. A parcel is settled at most once.
func (rt Runtime) settleParcel(
	ctx context.Context,
	uow UoW,
	p *parcel.Parcel,
	bonus, tip decimal.Decimal,
	now time.Time,
	fx *effects,
) (*ledger.Earning, error) {
	if p.Status() != parcel.Delivered {
		return nil, errs.NewInvalidStatusTransitionError("parcel", p.Status().String(), "settled")
	}

	repo := uow.LedgerRepository()
	_, err := repo.GetEarningByParcel(ctx, p.ID())
	if err == nil {
		return nil, errs.ErrPaymentAlreadyProcessed
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	comp, err := uow.CompanyRepository().Get(ctx, p.CompanyID())
	if err != nil {
		return nil, err
	}

	var (
		split   ledger.Split
		agentID *kernel.UUID
	)
	if p.GroupID() != nil {
		split, err = rt.calculator().GroupMemberSplit(comp, p.Pricing().Total())
	} else {
		agentID = p.AgentID()
		split, err = rt.calculator().ParcelSplit(comp, p.Pricing().Total(), bonus, tip)
	}
	if err != nil {
		return nil, err
	}

	earning, err := ledger.NewEarning(kernel.NewUUID(), p.ID(), p.CompanyID(), agentID, split, now,
		rt.Policy.Settlement.HoldingPeriod)
	if err != nil {
		return nil, err
	}
	if err = repo.AddEarning(ctx, earning); err != nil {
		return nil, err
	}

	earningID, parcelID := earning.ID(), p.ID()
	refs := ledger.References{EarningID: &earningID, ParcelID: &parcelID}
	entries := make([]*ledger.Transaction, 0, 2)

	if split.CompanyNetEarning.IsPositive() {
		tx, err := ledger.NewPendingCredit(p.CompanyID(), ledger.RoleCompany, ledger.TxEarning,
			split.CompanyNetEarning, refs, "parcel "+p.TrackingNumber(), now, earning.ClearsAt())
		if err != nil {
			return nil, err
		}
		entries = append(entries, tx)
	}
	if agentID != nil && split.AgentTotal().IsPositive() {
		tx, err := ledger.NewPendingCredit(*agentID, ledger.RoleAgent, ledger.TxEarning,
			split.AgentTotal(), refs, "parcel "+p.TrackingNumber(), now, earning.ClearsAt())
		if err != nil {
			return nil, err
		}
		entries = append(entries, tx)
	}

	if err = newLedgerPoster(repo).appendEntries(ctx, entries...); err != nil {
		return nil, err
	}
	fx.count(metrics.Settlements.WithLabelValues("parcel"))
	return earning, nil
}

// settleGroup pays a completed group's pickup and delivery agents out of the company's
// wallet. It runs once per group.
func (rt Runtime) settleGroup(
	ctx context.Context,
	uow UoW,
	g *group.Group,
	settlement ledger.GroupSettlement,
	now time.Time,
	fx *effects,
) error {
	if g.Status() != group.Completed {
		return errs.NewInvalidStatusTransitionError("group", g.Status().String(), "settled")
	}

	repo := uow.LedgerRepository()
	settled, err := repo.HasGroupSettlement(ctx, g.ID())
	if err != nil {
		return err
	}
	if settled {
		return errs.ErrPaymentAlreadyProcessed
	}
	if err = repo.AddGroupSettlement(ctx, settlement); err != nil {
		return err
	}

	groupID := g.ID()
	refs := ledger.References{GroupID: &groupID}
	clearsAt := now.Add(rt.Policy.Settlement.HoldingPeriod)
	desc := "group " + g.Code()

	credits := []struct {
		owner  kernel.UUID
		role   ledger.Role
		txType ledger.TxType
		amount decimal.Decimal
	}{
		{settlement.PickupAgentID, ledger.RoleAgent, ledger.TxGroupEarning, settlement.PickupEarnings},
		{settlement.DeliveryAgentID, ledger.RoleAgent, ledger.TxGroupEarning, settlement.DeliveryEarnings},
		{settlement.CompanyID, ledger.RoleCompany, ledger.TxGroupCost, settlement.CompanyCost().Neg()},
	}

	entries := make([]*ledger.Transaction, 0, len(credits))
	for _, c := range credits {
		if c.amount.IsZero() {
			continue
		}
		tx, err := ledger.NewPendingCredit(c.owner, c.role, c.txType, c.amount, refs, desc, now, clearsAt)
		if err != nil {
			return err
		}
		entries = append(entries, tx)
	}

	if err = newLedgerPoster(repo).appendEntries(ctx, entries...); err != nil {
		return err
	}
	fx.count(metrics.Settlements.WithLabelValues("group"))
	return nil
}
