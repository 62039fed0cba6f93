package commands

import (
	"context"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/pkg/metrics"
)

// CancelGroupCommandHandler cancels an Open, Closed or Expired group. A pending pickup
// offer is superseded and the members go back to individual dispatch.
type CancelGroupCommandHandler struct {
	rt Runtime
}

func NewCancelGroupCommandHandler(rt Runtime) CancelGroupCommandHandler {
	return CancelGroupCommandHandler{rt: rt}
}

func (h CancelGroupCommandHandler) Handle(ctx context.Context, cmd CancelGroupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		groups := uow.GroupRepository()
		g, err := groups.Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}

		if err = g.Cancel(); err != nil {
			return err
		}
		g.ClearNeedsReassignment()
		if err = groups.Update(ctx, g); err != nil {
			return err
		}
		subject := assignment.GroupLegSubject(g.ID(), assignment.PickupLeg)
		if err = supersedeActive(ctx, uow, subject, h.rt.now()); err != nil {
			return err
		}

		fx.count(metrics.GroupsClosed.WithLabelValues(closeLabel(g.CloseReason())))
		return dissolveMembers(ctx, uow, g, fx)
	})
}
