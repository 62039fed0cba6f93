package commands

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/domain/services"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/metrics"
)

// offerer implements the offer protocol shared by parcels and group legs: pick the best
// eligible agent that has not been tried for this subject, and create a Pending
// assignment with a response deadline.
type offerer struct {
	selector services.AgentSelector
	policy   DispatchPolicy
}

// attempts summarises the offers of one subject since it was last assigned by hand.
type attempts struct {
	next      int
	attempted []kernel.UUID
}

func readAttempts(history []*assignment.Assignment) attempts {
	start := 0
	for i, a := range history {
		if a.AttemptCount() == 1 {
			start = i
		}
	}

	round := history[start:]
	res := attempts{next: 1, attempted: make([]kernel.UUID, 0, len(round))}
	for _, a := range round {
		res.attempted = append(res.attempted, a.AgentID())
		if a.AttemptCount() >= res.next {
			res.next = a.AttemptCount() + 1
		}
	}
	return res
}

// offer creates the next automatic offer for subject. It fails with
// errs.ErrNeedsReassignment once the attempt ceiling is reached and with
// errs.ErrNoAgentsAvailable when nobody eligible is left; the caller flags the subject.
func (o offerer) offer(
	ctx context.Context,
	uow UoW,
	subject assignment.Subject,
	companyID kernel.UUID,
	pickup services.Pickup,
	priority int,
	now time.Time,
	fx *effects,
) (*assignment.Assignment, error) {
	assignments := uow.AssignmentRepository()

	_, err := assignments.FindActive(ctx, subject)
	if err == nil {
		return nil, ErrActiveAssignmentExists
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	history, err := assignments.ListBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	tried := readAttempts(history)
	if tried.next > o.policy.MaxAttempts {
		return nil, errs.ErrNeedsReassignment
	}

	busy, err := assignments.ListAgentsWithPendingOffers(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := uow.AgentRepository().FindCandidates(ctx, companyID, pickup.City, pickup.Pincode)
	if err != nil {
		return nil, err
	}

	chosen, err := o.selector.Select(services.SelectionRequest{
		Pickup:    pickup,
		Attempted: tried.attempted,
		Busy:      busy,
	}, candidates, now)
	if err != nil {
		return nil, err
	}

	return o.create(ctx, uow, subject, chosen.ID(), tried.next, priority, now, fx)
}

func (o offerer) create(
	ctx context.Context,
	uow UoW,
	subject assignment.Subject,
	agentID kernel.UUID,
	attempt, priority int,
	now time.Time,
	fx *effects,
) (*assignment.Assignment, error) {
	a, err := assignment.NewAssignment(kernel.NewUUID(), subject, agentID, attempt, priority, now, o.policy.ResponseTimeout)
	if err != nil {
		return nil, err
	}
	if err = uow.AssignmentRepository().Add(ctx, a); err != nil {
		return nil, err
	}

	kind := "parcel"
	if subject.IsGroupLeg() {
		kind = "group_" + strings.ToLower(subject.Leg().String())
	}
	fx.count(metrics.AssignmentsOffered.WithLabelValues(kind))
	fx.notify(agentID, ports.NotifyAssignmentOffer, map[string]string{
		"assignment_id": a.ID().String(),
		"subject":       subject.String(),
		"attempt":       strconv.Itoa(attempt),
		"respond_by":    a.RespondBy().Format(time.RFC3339),
	})
	return a, nil
}

// isEscalation reports the dispatch failures that hand the subject to the company.
func isEscalation(err error) bool {
	return errors.Is(err, errs.ErrNeedsReassignment) || errors.Is(err, errs.ErrNoAgentsAvailable)
}

// dispatchParcel offers a dispatchable parcel, flagging it when automatic dispatch gives
// up. The escalation error is returned after the flag has been stored.
func (o offerer) dispatchParcel(ctx context.Context, uow UoW, p *parcel.Parcel, now time.Time, fx *effects) (*assignment.Assignment, error) {
	if !p.IsDispatchable() {
		if p.GroupID() != nil {
			return nil, ErrParcelInGroup
		}
		return nil, errs.NewInvalidStatusTransitionError("parcel", p.Status().String(), parcel.Assigned.String())
	}
	if p.NeedsReassignment() {
		return nil, errs.ErrNeedsReassignment
	}

	pickup := services.Pickup{City: p.Pickup().City(), Pincode: p.Pickup().Pincode()}
	a, err := o.offer(ctx, uow, assignment.ParcelSubject(p.ID()), p.CompanyID(), pickup, 0, now, fx)
	if err == nil || !isEscalation(err) {
		return a, err
	}

	p.FlagNeedsReassignment()
	if updateErr := uow.ParcelRepository().Update(ctx, p); updateErr != nil {
		return nil, updateErr
	}
	fx.count(metrics.ReassignmentsFlagged)
	fx.notify(p.CompanyID(), ports.NotifyNeedsReassignment, map[string]string{
		"parcel_id":       p.ID().String(),
		"tracking_number": p.TrackingNumber(),
		"reason":          err.Error(),
	})
	return nil, err
}

// legArea is where an agent has to be to serve a group leg: the warehouse for the
// pickup leg, the target city for the delivery leg.
func legArea(g *group.Group, leg assignment.Leg) services.Pickup {
	if leg == assignment.DeliveryLeg {
		return services.Pickup{City: g.Route().TargetCity}
	}
	return services.Pickup{City: g.Warehouse().City(), Pincode: g.Warehouse().Pincode()}
}

// groupLegPriority puts group legs ahead of single parcels; they move several parcels.
const groupLegPriority = 1

// dispatchGroupLeg offers one leg of a group, flagging the group on escalation.
func (o offerer) dispatchGroupLeg(
	ctx context.Context,
	uow UoW,
	g *group.Group,
	leg assignment.Leg,
	now time.Time,
	fx *effects,
) (*assignment.Assignment, error) {
	if err := checkLegDispatchable(g, leg); err != nil {
		return nil, err
	}
	if g.NeedsReassignment() {
		return nil, errs.ErrNeedsReassignment
	}

	a, err := o.offer(ctx, uow, assignment.GroupLegSubject(g.ID(), leg), g.CompanyID(), legArea(g, leg),
		groupLegPriority, now, fx)
	if err == nil || !isEscalation(err) {
		return a, err
	}

	g.FlagNeedsReassignment()
	if updateErr := uow.GroupRepository().Update(ctx, g); updateErr != nil {
		return nil, updateErr
	}
	fx.count(metrics.ReassignmentsFlagged)
	fx.notify(g.CompanyID(), ports.NotifyNeedsReassignment, map[string]string{
		"group_id":   g.ID().String(),
		"group_code": g.Code(),
		"leg":        leg.String(),
		"reason":     err.Error(),
	})
	return nil, err
}

func checkLegDispatchable(g *group.Group, leg assignment.Leg) error {
	switch leg {
	case assignment.PickupLeg:
		if g.ReadyForPickup() && g.PickupAgentID() == nil {
			return nil
		}
		return errs.NewInvalidStatusTransitionError("group", g.Status().String(), group.PickingUp.String())
	case assignment.DeliveryLeg:
		if g.Status() == group.InTransit && g.DeliveryAgentID() == nil {
			return nil
		}
		return errs.NewInvalidStatusTransitionError("group", g.Status().String(), group.Delivering.String())
	case assignment.NoLeg:
	}
	return errs.NewValueIsInvalidError("group leg")
}

// redispatch offers the subject of a rejected or expired assignment again. Escalations are
// absorbed: the subject has been flagged and the company notified.
func (o offerer) redispatch(ctx context.Context, uow UoW, subject assignment.Subject, now time.Time, fx *effects) error {
	var err error
	if subject.IsGroupLeg() {
		var g *group.Group
		g, err = uow.GroupRepository().Get(ctx, *subject.GroupID())
		if err != nil {
			return err
		}
		if checkLegDispatchable(g, subject.Leg()) != nil || g.NeedsReassignment() {
			return nil
		}
		_, err = o.dispatchGroupLeg(ctx, uow, g, subject.Leg(), now, fx)
	} else {
		var p *parcel.Parcel
		p, err = uow.ParcelRepository().Get(ctx, *subject.ParcelID())
		if err != nil {
			return err
		}
		if !p.IsDispatchable() || p.NeedsReassignment() {
			return nil
		}
		_, err = o.dispatchParcel(ctx, uow, p, now, fx)
	}

	if isEscalation(err) {
		return nil
	}
	return err
}
