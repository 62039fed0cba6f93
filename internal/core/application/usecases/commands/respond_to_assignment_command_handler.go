package commands

import (
	"context"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/metrics"
)

// RespondToAssignmentCommandHandler applies an agent's accept or reject.
//
// The response deadline is checked against the clock, not against the sweep: an answer
// at or after respondBy fails with errs.ErrAssignmentExpired even if the offer still
// reads Pending. Two simultaneous answers both read Pending; the second versioned write
// fails, its retry re-reads the resolved offer and returns
// errs.ErrAssignmentAlreadyResponded.
//
// An accepted parcel offer assigns the parcel and takes an agent slot. An accepted group
// leg starts the pickup or delivery of every member. A rejection re-dispatches the
// subject to the next agent in the same unit of work.
type RespondToAssignmentCommandHandler struct {
	rt Runtime
}

func NewRespondToAssignmentCommandHandler(rt Runtime) RespondToAssignmentCommandHandler {
	return RespondToAssignmentCommandHandler{rt: rt}
}

func (h RespondToAssignmentCommandHandler) Handle(ctx context.Context, cmd RespondToAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		repo := uow.AssignmentRepository()

		a, err := repo.Get(ctx, cmd.AssignmentID())
		if err != nil {
			return err
		}

		if !cmd.Accept() {
			if err = a.Reject(cmd.AgentID(), cmd.Reason(), now); err != nil {
				return err
			}
			if err = repo.Update(ctx, a); err != nil {
				return err
			}
			fx.count(metrics.AssignmentsResolved.WithLabelValues("rejected"))
			return h.rt.offers().redispatch(ctx, uow, a.Subject(), now, fx)
		}

		if err = a.Accept(cmd.AgentID(), now); err != nil {
			return err
		}
		if err = repo.Update(ctx, a); err != nil {
			return err
		}
		if err = startAssignedWork(ctx, uow, a.Subject(), cmd.AgentID(), now, fx); err != nil {
			return err
		}
		fx.count(metrics.AssignmentsResolved.WithLabelValues("accepted"))
		return nil
	})
}

// startAssignedWork binds the accepting agent to the offer's subject.
func startAssignedWork(
	ctx context.Context,
	uow UoW,
	subject assignment.Subject,
	agentID kernel.UUID,
	now time.Time,
	fx *effects,
) error {
	if err := occupyAgent(ctx, uow, agentID); err != nil {
		return err
	}

	parcels := uow.ParcelRepository()
	if !subject.IsGroupLeg() {
		p, err := parcels.Get(ctx, *subject.ParcelID())
		if err != nil {
			return err
		}
		if err = p.Assign(agentID, now); err != nil {
			return err
		}
		p.ClearNeedsReassignment()
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyParcelAssigned, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"agent_id":        agentID.String(),
		})
		return nil
	}

	groups := uow.GroupRepository()
	g, err := groups.Get(ctx, *subject.GroupID())
	if err != nil {
		return err
	}

	switch subject.Leg() {
	case assignment.PickupLeg:
		err = g.StartPickup(agentID, now)
	case assignment.DeliveryLeg:
		err = g.StartDelivery(agentID, now)
	case assignment.NoLeg:
	}
	if err != nil {
		return err
	}
	if err = groups.Update(ctx, g); err != nil {
		return err
	}

	for _, id := range g.MemberParcelIDs() {
		p, err := parcels.Get(ctx, id)
		if err != nil {
			return err
		}
		if subject.Leg() == assignment.PickupLeg {
			err = p.Assign(agentID, now)
		} else {
			err = p.HandOver(agentID)
		}
		if err != nil {
			return err
		}
		if err = parcels.Update(ctx, p); err != nil {
			return err
		}
		fx.notify(p.CustomerID(), ports.NotifyParcelAssigned, map[string]string{
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
			"agent_id":        agentID.String(),
			"group_code":      g.Code(),
		})
	}
	return nil
}
