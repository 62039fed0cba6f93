package commands

import (
	"context"

	"tpts/internal/core/ports"
)

type StartTransitCommandHandler struct {
	rt Runtime
}

func NewStartTransitCommandHandler(rt Runtime) StartTransitCommandHandler {
	return StartTransitCommandHandler{rt: rt}
}

func (h StartTransitCommandHandler) Handle(ctx context.Context, cmd StartTransitCommand) error {
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

		if err = p.StartTransit(h.rt.now()); err != nil {
			return err
		}
		if err = repo.Update(ctx, p); err != nil {
			return err
		}

		fx.notify(p.CustomerID(), ports.NotifyParcelInTransit, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
		})
		return nil
	})
}
