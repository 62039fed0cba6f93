package group

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGroupIsNotConstructed = errors.New("Group must be created via NewGroup constructor")

// Route is an ordered source -> target city pair. Cities compare case-insensitively.
type Route struct {
	SourceCity string
	TargetCity string
}

// Matches reports whether other travels exactly the same way.
func (r Route) Matches(other Route) bool {
	return kernel.SameCity(r.SourceCity, other.SourceCity) && kernel.SameCity(r.TargetCity, other.TargetCity)
}

func (r Route) String() string { return r.SourceCity + " -> " + r.TargetCity }

// Member is a parcel in the group, with the price its customer pays after the group discount.
type Member struct {
	ParcelID   kernel.UUID
	CustomerID kernel.UUID
	FinalPrice decimal.Decimal
}

// Params holds the terms a company opens a group with.
type Params struct {
	ID            kernel.UUID
	Code          string
	CompanyID     kernel.UUID
	Route         Route
	Warehouse     kernel.Address
	TargetMembers int
	MinMembers    int
	Deadline      time.Time
	DiscountRate  decimal.Decimal
}

// Snapshot is the persisted state of a group.
type Snapshot struct {
	Params
	Members               []Member
	Status                Status
	CloseReason           CloseReason
	PickupAgentID         *kernel.UUID
	DeliveryAgentID       *kernel.UUID
	PickupStartedAt       *time.Time
	PickupCompletedAt     *time.Time
	DeliveryStartedAt     *time.Time
	DeliveryCompletedAt   *time.Time
	PickupAgentEarnings   decimal.Decimal
	DeliveryAgentEarnings decimal.Decimal
	NeedsReassignment     bool
	CreatedAt             time.Time
	Version               int64
}

// Group pools parcels travelling the same route into one discounted shipment, collected
// by a pickup agent at the warehouse and distributed by a delivery agent.
//
// Invariants:
//   - len(members) <= targetMembers at all times
//   - members are frozen once the status leaves Open
//   - a customer appears at most once
//   - agent earnings are posted once, on completion
type Group struct {
	id                    kernel.UUID
	code                  string
	companyID             kernel.UUID
	route                 Route
	warehouse             kernel.Address
	targetMembers         int
	minMembers            int
	members               []Member
	deadline              time.Time
	discountRate          decimal.Decimal
	status                Status
	closeReason           CloseReason
	pickupAgentID         *kernel.UUID
	deliveryAgentID       *kernel.UUID
	pickupStartedAt       *time.Time
	pickupCompletedAt     *time.Time
	deliveryStartedAt     *time.Time
	deliveryCompletedAt   *time.Time
	pickupAgentEarnings   decimal.Decimal
	deliveryAgentEarnings decimal.Decimal
	needsReassignment     bool
	createdAt             time.Time
	kernel.Versioned
	guard guard.ConstructorGuard
}

// NewGroup opens a group. The deadline must lie in the future.
func NewGroup(params Params, now time.Time) (*Group, error) {
	if !params.Deadline.After(now) {
		return nil, errs.NewValueIsInvalidErrorWithCause("deadline", errors.New("must be in the future"))
	}
	return RestoreGroup(Snapshot{Params: params, Status: Open, CreatedAt: now})
}

// RestoreGroup rebuilds a group from storage.
func RestoreGroup(s Snapshot) (*Group, error) {
	g := &Group{
		id:                    s.ID,
		code:                  strings.TrimSpace(s.Code),
		companyID:             s.CompanyID,
		route:                 s.Route,
		warehouse:             s.Warehouse,
		targetMembers:         s.TargetMembers,
		minMembers:            s.MinMembers,
		members:               slices.Clone(s.Members),
		deadline:              s.Deadline,
		discountRate:          s.DiscountRate,
		status:                s.Status,
		closeReason:           s.CloseReason,
		pickupAgentID:         s.PickupAgentID,
		deliveryAgentID:       s.DeliveryAgentID,
		pickupStartedAt:       s.PickupStartedAt,
		pickupCompletedAt:     s.PickupCompletedAt,
		deliveryStartedAt:     s.DeliveryStartedAt,
		deliveryCompletedAt:   s.DeliveryCompletedAt,
		pickupAgentEarnings:   s.PickupAgentEarnings,
		deliveryAgentEarnings: s.DeliveryAgentEarnings,
		needsReassignment:     s.NeedsReassignment,
		createdAt:             s.CreatedAt,
		Versioned:             kernel.RestoreVersioned(s.Version),
		guard:                 guard.NewConstructorGuard(),
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) validate() error {
	var problems []error
	if g.code == "" {
		problems = append(problems, errs.NewValueIsRequiredError("group code"))
	}
	if strings.TrimSpace(g.route.SourceCity) == "" || strings.TrimSpace(g.route.TargetCity) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("route"))
	}
	if g.targetMembers < 2 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("target members",
			fmt.Errorf("%d is less than 2", g.targetMembers)))
	}
	if g.minMembers < 1 || g.minMembers > g.targetMembers {
		problems = append(problems, errs.NewValueIsOutOfRangeError("min members", g.minMembers, 1, g.targetMembers))
	}
	if len(g.members) > g.targetMembers {
		problems = append(problems, errs.NewDataIntegrityError("group %s has %d members, target %d",
			g.id, len(g.members), g.targetMembers))
	}
	if g.discountRate.IsNegative() || !g.discountRate.LessThan(decimal.NewFromInt(1)) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("discount rate", g.discountRate, 0, 1))
	}

	return errors.Join(append(problems,
		g.id.Validate(),
		g.companyID.Validate(),
		g.warehouse.Validate(),
		g.status.Validate(),
	)...)
}

func (g *Group) Validate() error {
	if g == nil {
		return ErrGroupIsNotConstructed
	}
	return g.guard.Validate(ErrGroupIsNotConstructed)
}

// CanJoin checks the join rules in order: free seat, open, before deadline, same route,
// customer not yet a member.
func (g *Group) CanJoin(customerID kernel.UUID, route Route, now time.Time) error {
	switch {
	case g.IsFull():
		return errs.ErrGroupFull
	case g.status != Open:
		return errs.ErrGroupClosed
	case !now.Before(g.deadline):
		return errs.ErrGroupDeadlinePassed
	case !g.route.Matches(route):
		return errs.ErrRouteMismatch
	case g.hasCustomer(customerID):
		return errs.ErrAlreadyJoinedGroup
	}
	return nil
}

// Join adds a member. Taking the last seat closes the group; the returned flag reports it.
func (g *Group) Join(member Member, route Route, now time.Time) (bool, error) {
	if err := g.CanJoin(member.CustomerID, route, now); err != nil {
		return false, err
	}
	if g.HasParcel(member.ParcelID) {
		return false, errs.ErrAlreadyJoinedGroup
	}

	g.members = append(g.members, member)
	if !g.IsFull() {
		return false, nil
	}

	if err := g.moveTo(Closed); err != nil {
		return false, err
	}
	g.closeReason = Filled
	return true, nil
}

// Leave removes a member while the group is Open; members are frozen afterwards.
func (g *Group) Leave(parcelID kernel.UUID) error {
	if g.status != Open {
		return errs.ErrGroupClosed
	}
	i := slices.IndexFunc(g.members, func(m Member) bool { return m.ParcelID.IsEqual(parcelID) })
	if i < 0 {
		return errs.NewObjectNotFoundError("group member", parcelID)
	}
	g.members = slices.Delete(g.members, i, i+1)
	return nil
}

// Expire is the deadline sweep for one group. It returns false for groups that are not
// Open or not yet due. Groups below minMembers are marked UnderMinimum and never proceed;
// their members must be released by the caller.
func (g *Group) Expire(now time.Time) bool {
	if g.status != Open || now.Before(g.deadline) {
		return false
	}

	if err := g.moveTo(Expired); err != nil {
		return false
	}
	if len(g.members) < g.minMembers {
		g.closeReason = UnderMinimum
	} else {
		g.closeReason = DeadlineReached
	}
	return true
}

// Cancel is the company-side cancellation of a group that has not started pickup.
func (g *Group) Cancel() error {
	if err := g.moveTo(Cancelled); err != nil {
		return err
	}
	g.closeReason = CancelledByCompany
	return nil
}

// ReadyForPickup reports whether the pickup leg should be dispatched.
func (g *Group) ReadyForPickup() bool {
	return g.status == Closed || (g.status == Expired && g.closeReason != UnderMinimum)
}

// StartPickup records the accepted pickup agent.
func (g *Group) StartPickup(agentID kernel.UUID, now time.Time) error {
	if !g.ReadyForPickup() {
		return errs.NewInvalidStatusTransitionError("group", g.status.String(), PickingUp.String())
	}
	if err := g.moveTo(PickingUp); err != nil {
		return err
	}
	g.pickupAgentID = &agentID
	g.pickupStartedAt = &now
	g.needsReassignment = false
	return nil
}

// CompletePickup marks every member collected at the warehouse.
func (g *Group) CompletePickup(now time.Time) error {
	if err := g.moveTo(InTransit); err != nil {
		return err
	}
	g.pickupCompletedAt = &now
	return nil
}

// StartDelivery records the accepted delivery agent, possibly the pickup agent again.
func (g *Group) StartDelivery(agentID kernel.UUID, now time.Time) error {
	if err := g.moveTo(Delivering); err != nil {
		return err
	}
	g.deliveryAgentID = &agentID
	g.deliveryStartedAt = &now
	g.needsReassignment = false
	return nil
}

// Complete ends the delivery leg and fixes the agents' earnings for the group.
func (g *Group) Complete(pickupEarnings, deliveryEarnings decimal.Decimal, now time.Time) error {
	if err := g.moveTo(Completed); err != nil {
		return err
	}
	g.deliveryCompletedAt = &now
	g.pickupAgentEarnings = pickupEarnings
	g.deliveryAgentEarnings = deliveryEarnings
	return nil
}

func (g *Group) moveTo(next Status) error {
	status, err := g.status.TransitionTo(next)
	if err != nil {
		return err
	}
	g.status = status
	return nil
}

func (g *Group) FlagNeedsReassignment()  { g.needsReassignment = true }
func (g *Group) ClearNeedsReassignment() { g.needsReassignment = false }

func (g *Group) IsFull() bool { return len(g.members) >= g.targetMembers }

// HasParcel reports whether parcelID is a member.
func (g *Group) HasParcel(parcelID kernel.UUID) bool {
	return slices.ContainsFunc(g.members, func(m Member) bool { return m.ParcelID.IsEqual(parcelID) })
}

func (g *Group) hasCustomer(customerID kernel.UUID) bool {
	return slices.ContainsFunc(g.members, func(m Member) bool { return m.CustomerID.IsEqual(customerID) })
}

// TotalGroupValue is the sum of the members' final prices.
func (g *Group) TotalGroupValue() decimal.Decimal {
	total := decimal.Zero
	for _, m := range g.members {
		total = total.Add(m.FinalPrice)
	}
	return total
}

// MemberParcelIDs lists member parcels in join order.
func (g *Group) MemberParcelIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(g.members))
	for _, m := range g.members {
		ids = append(ids, m.ParcelID)
	}
	return ids
}

func (g *Group) ID() kernel.UUID                        { return g.id }
func (g *Group) Code() string                           { return g.code }
func (g *Group) CompanyID() kernel.UUID                 { return g.companyID }
func (g *Group) Route() Route                           { return g.route }
func (g *Group) Warehouse() kernel.Address              { return g.warehouse }
func (g *Group) TargetMembers() int                     { return g.targetMembers }
func (g *Group) MinMembers() int                        { return g.minMembers }
func (g *Group) CurrentMembers() int                    { return len(g.members) }
func (g *Group) Members() []Member                      { return slices.Clone(g.members) }
func (g *Group) Deadline() time.Time                    { return g.deadline }
func (g *Group) DiscountRate() decimal.Decimal          { return g.discountRate }
func (g *Group) Status() Status                         { return g.status }
func (g *Group) CloseReason() CloseReason               { return g.closeReason }
func (g *Group) PickupAgentID() *kernel.UUID            { return g.pickupAgentID }
func (g *Group) DeliveryAgentID() *kernel.UUID          { return g.deliveryAgentID }
func (g *Group) PickupStartedAt() *time.Time            { return g.pickupStartedAt }
func (g *Group) PickupCompletedAt() *time.Time          { return g.pickupCompletedAt }
func (g *Group) DeliveryStartedAt() *time.Time          { return g.deliveryStartedAt }
func (g *Group) DeliveryCompletedAt() *time.Time        { return g.deliveryCompletedAt }
func (g *Group) PickupAgentEarnings() decimal.Decimal   { return g.pickupAgentEarnings }
func (g *Group) DeliveryAgentEarnings() decimal.Decimal { return g.deliveryAgentEarnings }
func (g *Group) NeedsReassignment() bool                { return g.needsReassignment }
func (g *Group) CreatedAt() time.Time                   { return g.createdAt }
