package commands

import (
	"context"
	"errors"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/metrics"
)

// Dispatched counts the offers one pending-dispatch run created.
type Dispatched struct {
	Parcels   int
	GroupLegs int
}

// DispatchPendingCommandHandler is the periodic dispatcher. Parcels are not offered at
// payment time so their customers can still join a group; this run picks them up, and
// any group leg whose earlier dispatch was interrupted. Subjects with an active offer are
// skipped, and escalations only flag the subject.
type DispatchPendingCommandHandler struct {
	rt Runtime
}

func NewDispatchPendingCommandHandler(rt Runtime) DispatchPendingCommandHandler {
	return DispatchPendingCommandHandler{rt: rt}
}

func (h DispatchPendingCommandHandler) Handle(ctx context.Context, cmd DispatchPendingCommand) (Dispatched, error) {
	if err := cmd.Validate(); err != nil {
		return Dispatched{}, err
	}

	var (
		res Dispatched
		err error
	)
	res.GroupLegs, err = h.rt.sweep(ctx, "pending-dispatch", h.awaitingGroups, h.dispatchGroup)
	if err != nil {
		return res, err
	}
	res.Parcels, err = h.rt.sweep(ctx, "pending-dispatch", h.dispatchable, h.dispatchParcel)
	return res, err
}

func (h DispatchPendingCommandHandler) dispatchable(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.ParcelRepository().ListDispatchable(ctx, h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, p := range found {
		ids = append(ids, p.ID())
	}
	return ids, nil
}

func (h DispatchPendingCommandHandler) dispatchParcel(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error) {
	p, err := uow.ParcelRepository().Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !p.IsDispatchable() || p.NeedsReassignment() {
		return false, nil
	}

	_, err = h.rt.offers().dispatchParcel(ctx, uow, p, h.rt.now(), fx)
	return h.settle(err, fx)
}

func (h DispatchPendingCommandHandler) awaitingGroups(ctx context.Context, uow UoW) ([]kernel.UUID, error) {
	found, err := uow.GroupRepository().ListAwaitingLeg(ctx, h.rt.batch())
	if err != nil {
		return nil, err
	}
	ids := make([]kernel.UUID, 0, len(found))
	for _, g := range found {
		ids = append(ids, g.ID())
	}
	return ids, nil
}

func (h DispatchPendingCommandHandler) dispatchGroup(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error) {
	g, err := uow.GroupRepository().Get(ctx, id)
	if err != nil {
		return false, err
	}

	leg := assignment.PickupLeg
	if g.Status() == group.InTransit {
		leg = assignment.DeliveryLeg
	}
	if checkLegDispatchable(g, leg) != nil || g.NeedsReassignment() {
		return false, nil
	}

	_, err = h.rt.offers().dispatchGroupLeg(ctx, uow, g, leg, h.rt.now(), fx)
	return h.settle(err, fx)
}

// settle turns the result of one dispatch into a sweep outcome: an offer counts, an
// active offer or an escalation is not a failure.
func (h DispatchPendingCommandHandler) settle(err error, fx *effects) (bool, error) {
	switch {
	case err == nil:
		fx.count(metrics.SweepRows.WithLabelValues("pending_dispatch"))
		return true, nil
	case errors.Is(err, ErrActiveAssignmentExists), isEscalation(err):
		return false, nil
	}
	return false, err
}
