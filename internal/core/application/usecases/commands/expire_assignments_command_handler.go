package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/metrics"
)

// ExpireAssignmentsCommandHandler expires every Pending offer past its deadline and
// re-dispatches its subject. Rows resolved in the meantime are skipped; running the
// sweep twice changes nothing the second time.
type ExpireAssignmentsCommandHandler struct {
	rt Runtime
}

func NewExpireAssignmentsCommandHandler(rt Runtime) ExpireAssignmentsCommandHandler {
	return ExpireAssignmentsCommandHandler{rt: rt}
}

// Handle returns the number of offers it expired.
func (h ExpireAssignmentsCommandHandler) Handle(ctx context.Context, cmd ExpireAssignmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.rt.sweep(ctx, "assignment-timeout", h.overdue, h.expire)
}

func (h ExpireAssignmentsCommandHandler) overdue(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.AssignmentRepository().ListOverdue(ctx, h.rt.now(), h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, a := range found {
		ids = append(ids, a.ID())
	}
	return ids, nil
}

func (h ExpireAssignmentsCommandHandler) expire(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error) {
	now := h.rt.now()
	repo := uow.AssignmentRepository()

	a, err := repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !a.Expire(now) {
		return false, nil
	}
	if err = repo.Update(ctx, a); err != nil {
		return false, err
	}

	fx.count(metrics.AssignmentsResolved.WithLabelValues("expired"))
	fx.count(metrics.SweepRows.WithLabelValues("assignment_timeout"))
	return true, h.rt.offers().redispatch(ctx, uow, a.Subject(), now, fx)
}
