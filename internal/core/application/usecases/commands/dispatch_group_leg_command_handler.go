package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
)

// DispatchGroupLegCommandHandler creates the next offer for a group leg. Outcomes match
// DispatchParcelCommandHandler, with the group flagged instead of a parcel.
type DispatchGroupLegCommandHandler struct {
	rt Runtime
}

func NewDispatchGroupLegCommandHandler(rt Runtime) DispatchGroupLegCommandHandler {
	return DispatchGroupLegCommandHandler{rt: rt}
}

func (h DispatchGroupLegCommandHandler) Handle(ctx context.Context, cmd DispatchGroupLegCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var offered kernel.UUID
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		g, err := uow.GroupRepository().Get(ctx, cmd.GroupID())
		if err != nil {
			return err
		}
		a, err := h.rt.offers().dispatchGroupLeg(ctx, uow, g, cmd.Leg(), h.rt.now(), fx)
		if isEscalation(err) && g.NeedsReassignment() {
			return reportAfterCommit(err)
		}
		if err != nil {
			return err
		}
		offered = a.ID()
		return nil
	})
	return offered, err
}
