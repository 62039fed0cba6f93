package commands

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DeliverGroupParcelCommandHandler delivers one member of a group. The parcel is settled
// without an agent share. Delivering the last member completes the group, frees the
// delivery agent's slot and pays both leg agents through the group settlement, all in
// the same unit of work.
type DeliverGroupParcelCommandHandler struct {
	rt Runtime
}

func NewDeliverGroupParcelCommandHandler(rt Runtime) DeliverGroupParcelCommandHandler {
	return DeliverGroupParcelCommandHandler{rt: rt}
}

func (h DeliverGroupParcelCommandHandler) Handle(ctx context.Context, cmd DeliverGroupParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	proofURL, err := h.rt.storeDocument(ctx, cmd.Proof())
	if err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		parcels := uow.ParcelRepository()

		g, err := uow.GroupRepository().Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}
		if g.Status() != group.Delivering {
			return errs.NewInvalidStatusTransitionError("group", g.Status().String(), "delivering parcels")
		}
		if err = requireHolder(g.DeliveryAgentID(), cmd.AgentID()); err != nil {
			return err
		}
		if !g.HasParcel(cmd.ParcelID()) {
			return ErrParcelNotInGroup
		}

		p, err := parcels.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if err = p.Deliver(cmd.Otp(), proofURL, now); err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		if _, err = h.rt.settleParcel(ctx, uow, p, decimal.Zero, decimal.Zero, now, fx); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyParcelDelivered, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"proof_url":       proofURL,
			"group_code":      g.Code(),
		})

		done, err := h.allDelivered(ctx, uow, g, p.ID())
		if err != nil {
			return err
		}
		if done {
			return h.complete(ctx, uow, g, now, fx)
		}
		// The group row is written on every delivery, so the last two deliveries cannot
		// both miss each other: one fails the version check and retries.
		return uow.GroupRepository().Update(ctx, g)
	})
}

// allDelivered checks the other members; justDelivered is known to be delivered.
func (h DeliverGroupParcelCommandHandler) allDelivered(
	ctx context.Context,
	uow UoW,
	g *group.Group,
	justDelivered kernel.UUID,
) (bool, error) {
	for _, id := range g.MemberParcelIDs() {
		if id.IsEqual(justDelivered) {
			continue
		}
		p, err := uow.ParcelRepository().Get(ctx, id)
		if err != nil {
			return false, err
		}
		if p.Status() != parcel.Delivered {
			return false, nil
		}
	}
	return true, nil
}

func (h DeliverGroupParcelCommandHandler) complete(
	ctx context.Context,
	uow UoW,
	g *group.Group,
	now time.Time,
	fx *effects,
) error {
	settlement, err := h.rt.calculator().GroupSettlement(g, now)
	if err != nil {
		return err
	}
	if err = g.Complete(settlement.PickupEarnings, settlement.DeliveryEarnings, now); err != nil {
		return err
	}
	if err = uow.GroupRepository().Update(ctx, g); err != nil {
		return err
	}
	if err = releaseAgent(ctx, uow, *g.DeliveryAgentID()); err != nil {
		return err
	}
	if err = h.rt.settleGroup(ctx, uow, g, settlement, now, fx); err != nil {
		return err
	}

	fx.notify(g.CompanyID(), ports.NotifyGroupCompleted, map[string]string{
		"group_id":          g.ID().String(),
		"group_code":        g.Code(),
		"total_value":       settlement.TotalGroupValue.StringFixed(kernel.CurrencyScale),
		"pickup_earnings":   settlement.PickupEarnings.StringFixed(kernel.CurrencyScale),
		"delivery_earnings": settlement.DeliveryEarnings.StringFixed(kernel.CurrencyScale),
	})
	return nil
}
