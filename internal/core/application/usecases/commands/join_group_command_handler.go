package commands

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// JoinedGroup is the result of a join as the customer sees it.
type JoinedGroup struct {
	FinalPrice decimal.Decimal
	Refund     decimal.Decimal
	Closed     bool
}

// JoinGroupCommandHandler puts a parcel into a group.
//
// The group's rules are checked first, in the order free seat, open, deadline, route,
// customer (errs.ErrGroupFull, errs.ErrGroupClosed, errs.ErrGroupDeadlinePassed,
// errs.ErrRouteMismatch, errs.ErrAlreadyJoinedGroup). The parcel must then be Confirmed,
// of the same company and without an active offer. It gets the group discount; for a
// paid parcel the difference is refunded after commit. Taking the last seat closes the
// group and dispatches its pickup leg in the same unit of work.
type JoinGroupCommandHandler struct {
	rt Runtime
}

func NewJoinGroupCommandHandler(rt Runtime) JoinGroupCommandHandler {
	return JoinGroupCommandHandler{rt: rt}
}

func (h JoinGroupCommandHandler) Handle(ctx context.Context, cmd JoinGroupCommand) (JoinedGroup, error) {
	if err := cmd.Validate(); err != nil {
		return JoinedGroup{}, err
	}

	var joined JoinedGroup
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		groups, parcels := uow.GroupRepository(), uow.ParcelRepository()

		g, err := groups.Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}
		p, err := parcels.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}

		route := group.Route{SourceCity: p.Pickup().City(), TargetCity: p.Delivery().City()}
		if err = g.CanJoin(p.CustomerID(), route, now); err != nil {
			return err
		}
		if err = h.checkParcel(ctx, uow, g, p); err != nil {
			return err
		}

		reduction, err := p.JoinGroup(g.ID(), g.DiscountRate())
		if err != nil {
			return err
		}
		closed, err := g.Join(group.Member{
			ParcelID:   p.ID(),
			CustomerID: p.CustomerID(),
			FinalPrice: p.Pricing().Total(),
		}, route, now)
		if err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		if err = groups.Update(ctx, g); err != nil {
			return err
		}

		joined = JoinedGroup{FinalPrice: p.Pricing().Total(), Closed: closed}
		if p.PaymentStatus() == parcel.PaymentPaid && reduction.IsPositive() {
			joined.Refund = reduction
			fx.refund(ports.RefundRequest{
				ParcelID:   p.ID(),
				PaymentRef: p.PaymentRef(),
				Amount:     reduction,
				Reason:     "group discount " + g.Code(),
			})
		}
		fx.notify(p.CustomerID(), ports.NotifyGroupJoined, map[string]string{
			"parcel_id":   p.ID().String(),
			"group_code":  g.Code(),
			"final_price": joined.FinalPrice.StringFixed(kernel.CurrencyScale),
		})

		if !closed {
			return nil
		}
		return closeGroup(ctx, uow, h.rt.offers(), g, now, fx)
	})
	return joined, err
}

func (h JoinGroupCommandHandler) checkParcel(ctx context.Context, uow UoW, g *group.Group, p *parcel.Parcel) error {
	if !p.CompanyID().IsEqual(g.CompanyID()) {
		return ErrCompanyMismatch
	}
	if p.GroupID() != nil {
		return errs.ErrAlreadyJoinedGroup
	}
	if p.Status() != parcel.Confirmed {
		return errs.NewInvalidStatusTransitionError("parcel", p.Status().String(), "grouped")
	}

	_, err := uow.AssignmentRepository().FindActive(ctx, assignment.ParcelSubject(p.ID()))
	if err == nil {
		return ErrActiveAssignmentExists
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	return nil
}

// closeGroup announces a group that stopped taking members and dispatches its pickup leg.
// A leg nobody takes is flagged for the company, which is not a failure of the close.
func closeGroup(ctx context.Context, uow UoW, o offerer, g *group.Group, now time.Time, fx *effects) error {
	fx.count(metrics.GroupsClosed.WithLabelValues(closeLabel(g.CloseReason())))
	fx.notify(g.CompanyID(), ports.NotifyGroupClosed, map[string]string{
		"group_id":   g.ID().String(),
		"group_code": g.Code(),
		"members":    strconv.Itoa(g.CurrentMembers()),
		"reason":     g.CloseReason().String(),
	})

	_, err := o.dispatchGroupLeg(ctx, uow, g, assignment.PickupLeg, now, fx)
	if isEscalation(err) {
		return nil
	}
	return err
}

var closeLabels = map[group.CloseReason]string{
	group.Filled:             "filled",
	group.DeadlineReached:    "deadline",
	group.UnderMinimum:       "under_minimum",
	group.CancelledByCompany: "cancelled",
}

func closeLabel(r group.CloseReason) string {
	if l, ok := closeLabels[r]; ok {
		return l
	}
	return "unknown"
}
