package commands

import (
	"context"
	"errors"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
)

// CancelParcelCommandHandler cancels a parcel that has not been delivered. The active
// offer is superseded, the holding agent's slot is freed and a paid parcel is refunded in
// full once the cancellation has committed. A refund the gateway refuses is returned as
// errs.ErrRefundFailed; the parcel stays cancelled.
//
// A member of an Open group leaves it first and is refunded what it still paid after the
// discount. Once the group has closed its members are frozen and ErrParcelInGroup is
// returned; only the company can cancel the whole group then.
type CancelParcelCommandHandler struct {
	rt Runtime
}

func NewCancelParcelCommandHandler(rt Runtime) CancelParcelCommandHandler {
	return CancelParcelCommandHandler{rt: rt}
}

func (h CancelParcelCommandHandler) Handle(ctx context.Context, cmd CancelParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		parcels := uow.ParcelRepository()

		p, err := parcels.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if p.GroupID() != nil {
			if err = leaveOpenGroup(ctx, uow, p, fx); err != nil {
				return err
			}
		}
		holder := p.AgentID()

		if err = p.Cancel(cmd.Reason(), now); err != nil {
			return err
		}
		if err = supersedeActive(ctx, uow, assignment.ParcelSubject(p.ID()), now); err != nil {
			return err
		}
		if holder != nil {
			if err = releaseAgent(ctx, uow, *holder); err != nil {
				return err
			}
			fx.notify(*holder, ports.NotifyParcelCancelled, map[string]string{"parcel_id": p.ID().String()})
		}

		if p.PaymentStatus() == parcel.PaymentPaid {
			if err = p.MarkRefunded(); err != nil {
				return err
			}
			fx.refund(ports.RefundRequest{
				ParcelID:   p.ID(),
				PaymentRef: p.PaymentRef(),
				Amount:     p.Pricing().Total(),
				Reason:     "cancelled: " + cmd.Reason(),
			})
		}

		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyParcelCancelled, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"reason":          cmd.Reason(),
		})
		return nil
	})
}

func leaveOpenGroup(ctx context.Context, uow UoW, p *parcel.Parcel, fx *effects) error {
	groups := uow.GroupRepository()
	g, err := groups.Get(ctx, *p.GroupID())
	if err != nil {
		return err
	}
	if g.Status() != group.Open {
		return ErrParcelInGroup
	}
	if err = g.Leave(p.ID()); err != nil {
		return err
	}
	if err = groups.Update(ctx, g); err != nil {
		return err
	}
	p.LeaveGroup()

	fx.notify(g.CompanyID(), ports.NotifyParcelCancelled, map[string]string{
		"parcel_id":  p.ID().String(),
		"group_code": g.Code(),
	})
	return nil
}

// supersedeActive ends the pending or accepted offer of subject, if there is one.
func supersedeActive(ctx context.Context, uow UoW, subject assignment.Subject, now time.Time) error {
	repo := uow.AssignmentRepository()
	active, err := repo.FindActive(ctx, subject)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err = active.Supersede(now); err != nil {
		return err
	}
	return repo.Update(ctx, active)
}
