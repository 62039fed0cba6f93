package commands

import (
	"context"

	"tpts/internal/core/ports"
)

// PickUpParcelCommandHandler verifies the pickup OTP of an individually dispatched parcel.
// A wrong OTP changes nothing, so the agent may try again.
type PickUpParcelCommandHandler struct {
	rt Runtime
}

func NewPickUpParcelCommandHandler(rt Runtime) PickUpParcelCommandHandler {
	return PickUpParcelCommandHandler{rt: rt}
}

func (h PickUpParcelCommandHandler) Handle(ctx context.Context, cmd PickUpParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		repo := uow.ParcelRepository()
		p, err := repo.Get(ctx, cmd.ParcelID())
		if err != nil {
			return err
		}
		if p.GroupID() != nil {
			return ErrParcelInGroup
		}
		if err = requireHolder(p.AgentID(), cmd.AgentID()); err != nil {
			return err
		}

		if err = p.PickUp(cmd.Otp(), h.rt.now()); err != nil {
			return err
		}
		if err = repo.Update(ctx, p); err != nil {
			return err
		}

		fx.notify(p.CustomerID(), ports.NotifyParcelPickedUp, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
		})
		return nil
	})
}
