package commands

import (
	"context"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
)

// CompleteGroupPickupCommandHandler closes the pickup leg. Every member must have been
// picked up (ErrGroupParcelsPending otherwise); they all move to InTransit, the pickup
// agent's slot is freed and the delivery leg is dispatched in the same unit of work.
// A delivery leg nobody takes leaves the group flagged, not the pickup undone.
type CompleteGroupPickupCommandHandler struct {
	rt Runtime
}

func NewCompleteGroupPickupCommandHandler(rt Runtime) CompleteGroupPickupCommandHandler {
	return CompleteGroupPickupCommandHandler{rt: rt}
}

func (h CompleteGroupPickupCommandHandler) Handle(ctx context.Context, cmd CompleteGroupPickupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		groups, parcels := uow.GroupRepository(), uow.ParcelRepository()

		g, err := groups.Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}
		if err = requireHolder(g.PickupAgentID(), cmd.AgentID()); err != nil {
			return err
		}

		members := make([]*parcel.Parcel, 0, g.CurrentMembers())
		for _, id := range g.MemberParcelIDs() {
			p, err := parcels.Get(ctx, id)
			if err != nil {
				return err
			}
			if p.Status() != parcel.PickedUp {
				return ErrGroupParcelsPending
			}
			members = append(members, p)
		}

		if err = g.CompletePickup(now); err != nil {
			return err
		}
		if err = groups.Update(ctx, g); err != nil {
			return err
		}
		for _, p := range members {
			if err = p.StartTransit(now); err != nil {
				return err
			}
			if err = parcels.Update(ctx, p); err != nil {
				return err
			}
			fx.notify(p.CustomerID(), ports.NotifyParcelInTransit, map[string]string{
				"parcel_id":       p.ID().String(),
				"tracking_number": p.TrackingNumber(),
				"group_code":      g.Code(),
			})
		}

		if err = releaseAgent(ctx, uow, cmd.AgentID()); err != nil {
			return err
		}

		_, err = h.rt.offers().dispatchGroupLeg(ctx, uow, g, assignment.DeliveryLeg, now, fx)
		if isEscalation(err) {
			return nil
		}
		return err
	})
}
