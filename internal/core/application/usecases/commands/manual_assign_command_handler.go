package commands

import (
	"context"
	"slices"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/pkg/errs"
)

// ManualAssignCommandHandler offers a subject to the agent the company picked.
//
// The agent must belong to the company and be able to take orders
// (errs.ErrAgentNotAvailable) and must not hold another unanswered offer
// (errs.ErrAgentAlreadyAssigned). Any pending or accepted offer of the subject is
// superseded; a parcel already accepted by another agent goes back to Confirmed and that
// agent's slot is freed. The reassignment flag is cleared and attempt counting restarts,
// so if the chosen agent declines, automatic dispatch resumes with a full set of attempts.
type ManualAssignCommandHandler struct {
	rt Runtime
}

func NewManualAssignCommandHandler(rt Runtime) ManualAssignCommandHandler {
	return ManualAssignCommandHandler{rt: rt}
}

func (h ManualAssignCommandHandler) Handle(ctx context.Context, cmd ManualAssignCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var offered kernel.UUID
	err := h.rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
		now := h.rt.now()
		subject := cmd.Subject()

		companyID, err := h.prepareSubject(ctx, uow, subject, now)
		if err != nil {
			return err
		}
		if err = h.checkAgent(ctx, uow, cmd.AgentID(), companyID); err != nil {
			return err
		}

		priority := 0
		if subject.IsGroupLeg() {
			priority = groupLegPriority
		}
		a, err := h.rt.offers().create(ctx, uow, subject, cmd.AgentID(), 1, priority, now, fx)
		if err != nil {
			return err
		}
		offered = a.ID()
		return nil
	})
	return offered, err
}

// prepareSubject supersedes the current offer, unassigns an accepted parcel and clears the
// flag. It returns the owning company.
func (h ManualAssignCommandHandler) prepareSubject(
	ctx context.Context,
	uow UoW,
	subject assignment.Subject,
	now time.Time,
) (kernel.UUID, error) {
	if subject.IsGroupLeg() {
		groups := uow.GroupRepository()
		g, err := groups.Get(ctx, *subject.GroupID())
		if err != nil {
			return kernel.UUID{}, err
		}
		if err = checkLegDispatchable(g, subject.Leg()); err != nil {
			return kernel.UUID{}, err
		}
		if err = supersedeActive(ctx, uow, subject, now); err != nil {
			return kernel.UUID{}, err
		}
		g.ClearNeedsReassignment()
		return g.CompanyID(), groups.Update(ctx, g)
	}

	parcels := uow.ParcelRepository()
	p, err := parcels.Get(ctx, *subject.ParcelID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if p.GroupID() != nil {
		return kernel.UUID{}, ErrParcelInGroup
	}
	if p.Status() != parcel.Confirmed && p.Status() != parcel.Assigned {
		return kernel.UUID{}, errs.NewInvalidStatusTransitionError("parcel", p.Status().String(), parcel.Assigned.String())
	}

	if err = supersedeActive(ctx, uow, subject, now); err != nil {
		return kernel.UUID{}, err
	}
	if p.Status() == parcel.Assigned {
		previous, err := p.Unassign()
		if err != nil {
			return kernel.UUID{}, err
		}
		if err = releaseAgent(ctx, uow, previous); err != nil {
			return kernel.UUID{}, err
		}
	}
	p.ClearNeedsReassignment()
	return p.CompanyID(), parcels.Update(ctx, p)
}

func (h ManualAssignCommandHandler) checkAgent(ctx context.Context, uow UoW, agentID, companyID kernel.UUID) error {
	a, err := uow.AgentRepository().Get(ctx, agentID)
	if err != nil {
		return err
	}
	if !a.CompanyID().IsEqual(companyID) || !a.CanTakeOrders() {
		return errs.ErrAgentNotAvailable
	}

	busy, err := uow.AssignmentRepository().ListAgentsWithPendingOffers(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(busy, agentID.IsEqual) {
		return errs.ErrAgentAlreadyAssigned
	}
	return nil
}
