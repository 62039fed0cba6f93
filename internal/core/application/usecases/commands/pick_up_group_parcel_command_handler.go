package commands

import (
	"context"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
)

// PickUpGroupParcelCommandHandler verifies the pickup OTP of one member of a group that
// is being picked up. Only the group's pickup agent may collect.
type PickUpGroupParcelCommandHandler struct {
	rt Runtime
}

func NewPickUpGroupParcelCommandHandler(rt Runtime) PickUpGroupParcelCommandHandler {
	return PickUpGroupParcelCommandHandler{rt: rt}
}

func (h PickUpGroupParcelCommandHandler) Handle(ctx context.Context, cmd PickUpGroupParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		g, err := uow.GroupRepository().Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}
		if g.Status() != group.PickingUp {
			return errs.NewInvalidStatusTransitionError("group", g.Status().String(), "collecting")
		}
		if err = requireHolder(g.PickupAgentID(), cmd.AgentID()); err != nil {
			return err
		}
		if !g.HasParcel(cmd.ParcelID()) {
			return ErrParcelNotInGroup
		}

		parcels := uow.ParcelRepository()
		p, err := parcels.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if err = p.PickUp(cmd.Otp(), h.rt.now()); err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}

		fx.notify(p.CustomerID(), ports.NotifyParcelPickedUp, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"group_code":      g.Code(),
		})
		return nil
	})
}
