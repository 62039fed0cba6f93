package commands

import (
	"context"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/metrics"
)

// SweepGroupDeadlinesCommandHandler expires Open groups past their deadline. A group with
// at least its minimum membership proceeds to pickup; a smaller one is dissolved and its
// parcels return to individual dispatch.
type SweepGroupDeadlinesCommandHandler struct {
	rt Runtime
}

func NewSweepGroupDeadlinesCommandHandler(rt Runtime) SweepGroupDeadlinesCommandHandler {
	return SweepGroupDeadlinesCommandHandler{rt: rt}
}

// Handle returns the number of groups it expired.
func (h SweepGroupDeadlinesCommandHandler) Handle(ctx context.Context, cmd SweepGroupDeadlinesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.rt.sweep(ctx, "group-deadline", h.due, h.expire)
}

func (h SweepGroupDeadlinesCommandHandler) due(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.GroupRepository().ListOpenPastDeadline(ctx, h.rt.now(), h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, g := range found {
		ids = append(ids, g.ID())
	}
	return ids, nil
}

func (h SweepGroupDeadlinesCommandHandler) expire(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error) {
	now := h.rt.now()
	groups := uow.GroupRepository()

	g, err := groups.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !g.Expire(now) {
		return false, nil
	}
	if err = groups.Update(ctx, g); err != nil {
		return false, err
	}
	fx.count(metrics.SweepRows.WithLabelValues("group_deadline"))

	if g.CloseReason() == group.UnderMinimum {
		fx.count(metrics.GroupsClosed.WithLabelValues(closeLabel(g.CloseReason())))
		return true, dissolveMembers(ctx, uow, g, fx)
	}
	return true, closeGroup(ctx, uow, h.rt.offers(), g, now, fx)
}
