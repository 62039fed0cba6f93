package commands_test

import (
	"testing"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blrToMaa = group.Route{SourceCity: "Bengaluru", TargetCity: "Chennai"}

func (w *world) openGroup(t *testing.T, companyID kernel.UUID, terms commands.GroupTerms) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewCreateGroupCommand(companyID, blrToMaa, address(t, "Bengaluru", "560034"), terms)
	require.NoError(t, err)
	created, err := commands.NewCreateGroupCommandHandler(w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return created.GroupID
}

func (w *world) join(t *testing.T, groupID, parcelID kernel.UUID) (commands.JoinedGroup, error) {
	t.Helper()
	cmd, err := commands.NewJoinGroupCommand(groupID, parcelID)
	require.NoError(t, err)
	return commands.NewJoinGroupCommandHandler(w.rt).Handle(t.Context(), cmd)
}

func (w *world) sweepDeadlines(t *testing.T) int {
	t.Helper()
	n, err := commands.NewSweepGroupDeadlinesCommandHandler(w.rt).Handle(t.Context(), commands.NewSweepGroupDeadlinesCommand())
	require.NoError(t, err)
	return n
}

func TestGroup_FullLifecycleSettlesBothLegs(t *testing.T) {
	// Arrange
	w := newWorld(t)
	w.flatPricing("1000")
	ctx := t.Context()
	companyID := w.company(t, "0.10", "0.20")
	pickupAgent := w.agent(t, companyID, "Ravi", "Bengaluru")
	deliveryAgent := w.agent(t, companyID, "Selvi", "Chennai")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	members := []kernel.UUID{w.confirmedParcel(t, companyID), w.confirmedParcel(t, companyID)}

	// Act: join until full
	first, err := w.join(t, groupID, members[0])
	require.NoError(t, err)
	second, err := w.join(t, groupID, members[1])
	require.NoError(t, err)

	// Assert
	assert.False(t, first.Closed)
	assert.True(t, second.Closed)
	assert.True(t, first.FinalPrice.Equal(dec("850")))
	assert.True(t, first.Refund.Equal(dec("150")))
	require.Len(t, w.gateway.refunded, 2)
	g := w.store.groups[groupID]
	assert.Equal(t, group.Closed, g.Status())
	assert.Equal(t, group.Filled, g.CloseReason())

	// Act: pickup leg
	pickupLeg := assignment.GroupLegSubject(groupID, assignment.PickupLeg)
	assert.True(t, w.acceptOffer(t, pickupLeg).IsEqual(pickupAgent))
	for _, id := range members {
		cmd, err := commands.NewPickUpGroupParcelCommand(groupID, id, pickupAgent, otp)
		require.NoError(t, err)
		require.NoError(t, commands.NewPickUpGroupParcelCommandHandler(w.rt).Handle(ctx, cmd))
	}
	complete, err := commands.NewCompleteGroupPickupCommand(groupID, pickupAgent)
	require.NoError(t, err)
	require.NoError(t, commands.NewCompleteGroupPickupCommandHandler(w.rt).Handle(ctx, complete))

	// Assert
	assert.Equal(t, group.InTransit, g.Status())
	assert.Zero(t, w.store.agents[pickupAgent].CurrentOrdersCount())
	for _, id := range members {
		assert.Equal(t, parcel.InTransit, w.parcel(id).Status())
	}

	// Act: delivery leg
	deliveryLeg := assignment.GroupLegSubject(groupID, assignment.DeliveryLeg)
	assert.True(t, w.acceptOffer(t, deliveryLeg).IsEqual(deliveryAgent))
	for _, id := range members {
		cmd, err := commands.NewDeliverGroupParcelCommand(groupID, id, deliveryAgent, otp,
			&commands.Document{Name: "pod-" + id.String() + ".jpg", ContentType: "image/jpeg", Content: []byte{0xff, 0xd8}})
		require.NoError(t, err)
		require.NoError(t, commands.NewDeliverGroupParcelCommandHandler(w.rt).Handle(ctx, cmd))
	}

	// Assert
	assert.Equal(t, group.Completed, g.Status())
	assert.True(t, g.PickupAgentEarnings().Equal(dec("170")))
	assert.True(t, g.DeliveryAgentEarnings().Equal(dec("170")))
	assert.Zero(t, w.store.agents[deliveryAgent].CurrentOrdersCount())
	assert.Len(t, w.docs.stored, 2)
	for _, id := range members {
		p := w.parcel(id)
		assert.Equal(t, parcel.Delivered, p.Status())
		assert.Contains(t, p.ProofOfDeliveryURL(), "mem://pod-")
		e := w.store.earnings[id]
		require.NotNil(t, e)
		assert.Nil(t, e.AgentID())
		assert.True(t, e.Split().PlatformCommission.Equal(dec("85")))
		assert.True(t, e.Split().CompanyNetEarning.Equal(dec("765")))
	}
	require.Contains(t, w.store.settlements, groupID)
	assert.True(t, w.walletOf(pickupAgent).Pending().Equal(dec("170")))
	assert.True(t, w.walletOf(deliveryAgent).Pending().Equal(dec("170")))
	assert.True(t, w.walletOf(companyID).Pending().Equal(dec("1190")))
	assert.Contains(t, w.notifier.types(companyID), ports.NotifyGroupCompleted)
}

// completeGroup fills a two-member group and drives it through both legs.
func (w *world) completeGroup(t *testing.T, companyID, groupID kernel.UUID) (pickupAgent, deliveryAgent kernel.UUID) {
	t.Helper()
	members, pickupAgent, deliveryAgent := w.outForDelivery(t, companyID, groupID)
	for _, id := range members {
		w.deliverGroupParcel(t, groupID, id, deliveryAgent)
	}
	return pickupAgent, deliveryAgent
}

func (w *world) deliverGroupParcel(t *testing.T, groupID, parcelID, agentID kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewDeliverGroupParcelCommand(groupID, parcelID, agentID, otp, nil)
	require.NoError(t, err)
	require.NoError(t, commands.NewDeliverGroupParcelCommandHandler(w.rt).Handle(t.Context(), cmd))
}

// outForDelivery fills a two-member group and drives it until the delivery agent has
// accepted; no member is delivered yet.
func (w *world) outForDelivery(t *testing.T, companyID, groupID kernel.UUID) (members []kernel.UUID, pickupAgent, deliveryAgent kernel.UUID) {
	t.Helper()
	ctx := t.Context()
	members = []kernel.UUID{w.confirmedParcel(t, companyID), w.confirmedParcel(t, companyID)}
	for _, id := range members {
		_, err := w.join(t, groupID, id)
		require.NoError(t, err)
	}

	pickupAgent = w.acceptOffer(t, assignment.GroupLegSubject(groupID, assignment.PickupLeg))
	for _, id := range members {
		cmd, err := commands.NewPickUpGroupParcelCommand(groupID, id, pickupAgent, otp)
		require.NoError(t, err)
		require.NoError(t, commands.NewPickUpGroupParcelCommandHandler(w.rt).Handle(ctx, cmd))
	}
	complete, err := commands.NewCompleteGroupPickupCommand(groupID, pickupAgent)
	require.NoError(t, err)
	require.NoError(t, commands.NewCompleteGroupPickupCommandHandler(w.rt).Handle(ctx, complete))

	deliveryAgent = w.acceptOffer(t, assignment.GroupLegSubject(groupID, assignment.DeliveryLeg))
	return members, pickupAgent, deliveryAgent
}

func TestDeliverGroupParcel_EveryDeliveryWritesTheGroup(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	w.agent(t, companyID, "Ravi", "Bengaluru")
	w.agent(t, companyID, "Selvi", "Chennai")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	members, _, deliveryAgent := w.outForDelivery(t, companyID, groupID)
	g := w.store.groups[groupID]
	before := g.Version()

	// Act
	w.deliverGroupParcel(t, groupID, members[0], deliveryAgent)

	// Assert
	assert.Equal(t, group.Delivering, g.Status())
	assert.Equal(t, before+1, g.Version(), "a racing last delivery must fail the version check")

	w.deliverGroupParcel(t, groupID, members[1], deliveryAgent)
	assert.Equal(t, group.Completed, g.Status())
	assert.Contains(t, w.store.settlements, groupID)
}

func TestGroup_SettleTwiceIsRejected(t *testing.T) {
	// Arrange
	w := newWorld(t)
	w.flatPricing("1000")
	companyID := w.company(t, "0.10", "0.20")
	w.agent(t, companyID, "Ravi", "Bengaluru")
	w.agent(t, companyID, "Selvi", "Chennai")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	_, courier := w.completeGroup(t, companyID, groupID)

	// Act
	cmd, err := commands.NewSettleGroupCommand(groupID)
	require.NoError(t, err)
	_, err = commands.NewSettleGroupCommandHandler(w.rt).Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrPaymentAlreadyProcessed)
	assert.Len(t, w.transactionsOf(courier), 1)
}

func TestGroup_SameAgentCanServeBothLegs(t *testing.T) {
	// Arrange
	w := newWorld(t)
	w.flatPricing("1000")
	companyID := w.company(t, "0.10", "0.20")
	cmd, err := commands.NewRegisterAgentCommand(companyID, "Selvi", "+919811111111", "Chennai", []string{"560034"}, 1)
	require.NoError(t, err)
	agentID, err := commands.NewRegisterAgentCommandHandler(w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	avail, err := commands.NewSetAgentAvailabilityCommand(agentID, true)
	require.NoError(t, err)
	require.NoError(t, commands.NewSetAgentAvailabilityCommandHandler(w.rt).Handle(t.Context(), avail))
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})

	// Act
	pickupAgent, deliveryAgent := w.completeGroup(t, companyID, groupID)

	// Assert
	assert.True(t, pickupAgent.IsEqual(agentID))
	assert.True(t, deliveryAgent.IsEqual(agentID))
	assert.Equal(t, group.Completed, w.store.groups[groupID].Status())
	assert.True(t, w.walletOf(agentID).Pending().Equal(dec("340")))
	assert.Zero(t, w.store.agents[agentID].CurrentOrdersCount())
}

func TestJoinGroup_SixthMemberIsRejected(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	for range 5 {
		_, err := w.join(t, groupID, w.confirmedParcel(t, companyID))
		require.NoError(t, err)
	}
	late := w.confirmedParcel(t, companyID)

	// Act
	_, err := w.join(t, groupID, late)

	// Assert
	require.ErrorIs(t, err, errs.ErrGroupFull)
	g := w.store.groups[groupID]
	assert.Equal(t, 5, g.CurrentMembers())
	assert.True(t, g.NeedsReassignment())
	assert.Nil(t, w.parcel(late).GroupID())
}

func TestJoinGroup_RouteMismatch(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	created := w.booking(t, kernel.NewUUID(), companyID, "Bengaluru", "Hyderabad")

	// Act
	_, err := w.join(t, groupID, created.ParcelID)

	// Assert
	require.ErrorIs(t, err, errs.ErrRouteMismatch)
	assert.Zero(t, w.store.groups[groupID].CurrentMembers())
}

func TestJoinGroup_UnpaidParcelKeepsFullPrice(t *testing.T) {
	// Arrange
	w := newWorld(t)
	w.flatPricing("1000")
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	created := w.booking(t, kernel.NewUUID(), companyID, "Bengaluru", "Chennai")

	// Act
	_, err := w.join(t, groupID, created.ParcelID)

	// Assert
	require.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	assert.True(t, w.parcel(created.ParcelID).Pricing().Total().Equal(dec("1000")))
	assert.Empty(t, w.gateway.refunded)
}

func TestJoinGroup_ParcelWithPendingOffer(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	w.agent(t, companyID, "Ravi", "Bengaluru")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	parcelID := w.confirmedParcel(t, companyID)
	_, err := w.dispatch(t, parcelID)
	require.NoError(t, err)

	// Act
	_, err = w.join(t, groupID, parcelID)

	// Assert
	require.ErrorIs(t, err, commands.ErrActiveAssignmentExists)
}

func TestJoinGroup_ParcelOfAnotherCompany(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	otherID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	parcelID := w.confirmedParcel(t, otherID)

	// Act
	_, err := w.join(t, groupID, parcelID)

	// Assert
	require.ErrorIs(t, err, commands.ErrCompanyMismatch)
}

func TestGroupDeadline_UnderMinimumDissolves(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	w.agent(t, companyID, "Ravi", "Bengaluru")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	parcelID := w.confirmedParcel(t, companyID)
	_, err := w.join(t, groupID, parcelID)
	require.NoError(t, err)
	w.clock.Advance(w.rt.Policy.Group.OpenFor)

	// Act
	swept := w.sweepDeadlines(t)

	// Assert
	assert.Equal(t, 1, swept)
	g := w.store.groups[groupID]
	assert.Equal(t, group.Expired, g.Status())
	assert.Equal(t, group.UnderMinimum, g.CloseReason())
	p := w.parcel(parcelID)
	assert.Nil(t, p.GroupID())
	assert.True(t, p.IsDispatchable())
	assert.Contains(t, w.notifier.types(p.CustomerID()), ports.NotifyGroupDissolved)
	assert.Nil(t, w.activeAssignment(assignment.GroupLegSubject(groupID, assignment.PickupLeg)))
}

func TestGroupDeadline_EnoughMembersProceeds(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	agentID := w.agent(t, companyID, "Ravi", "Bengaluru")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	for range 2 {
		_, err := w.join(t, groupID, w.confirmedParcel(t, companyID))
		require.NoError(t, err)
	}
	w.clock.Advance(w.rt.Policy.Group.OpenFor)

	// Act
	swept := w.sweepDeadlines(t)
	again := w.sweepDeadlines(t)

	// Assert
	assert.Equal(t, 1, swept)
	assert.Zero(t, again)
	g := w.store.groups[groupID]
	assert.Equal(t, group.Expired, g.Status())
	assert.Equal(t, group.DeadlineReached, g.CloseReason())
	offer := w.activeAssignment(assignment.GroupLegSubject(groupID, assignment.PickupLeg))
	require.NotNil(t, offer)
	assert.True(t, offer.AgentID().IsEqual(agentID))
	assert.Contains(t, w.notifier.types(companyID), ports.NotifyGroupClosed)
}

func TestGroupDeadline_NotYetDue(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})

	// Act
	swept := w.sweepDeadlines(t)

	// Assert
	assert.Zero(t, swept)
	assert.Equal(t, group.Open, w.store.groups[groupID].Status())
}

func (w *world) cancel(t *testing.T, parcelID kernel.UUID) error {
	t.Helper()
	cmd, err := commands.NewCancelParcelCommand(parcelID, "plans changed")
	require.NoError(t, err)
	return commands.NewCancelParcelCommandHandler(w.rt).Handle(t.Context(), cmd)
}

func TestCancelParcel_MemberOfOpenGroupLeavesIt(t *testing.T) {
	// Arrange
	w := newWorld(t)
	w.flatPricing("1000")
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	staying := w.confirmedParcel(t, companyID)
	leaving := w.confirmedParcel(t, companyID)
	for _, id := range []kernel.UUID{staying, leaving} {
		_, err := w.join(t, groupID, id)
		require.NoError(t, err)
	}

	// Act
	err := w.cancel(t, leaving)

	// Assert
	require.NoError(t, err)
	p := w.parcel(leaving)
	assert.Equal(t, parcel.Cancelled, p.Status())
	assert.Equal(t, parcel.PaymentRefunded, p.PaymentStatus())
	assert.Nil(t, p.GroupID())

	g := w.store.groups[groupID]
	assert.Equal(t, group.Open, g.Status())
	assert.Equal(t, []kernel.UUID{staying}, g.MemberParcelIDs())

	require.Len(t, w.gateway.refunded, 3, "two join discounts and the cancellation")
	last := w.gateway.refunded[2]
	assert.True(t, last.ParcelID.IsEqual(leaving))
	assert.True(t, last.Amount.Equal(dec("850")), "the discount was already refunded on joining")
}

func TestCancelParcel_MemberOfClosedGroupIsRejected(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	members := []kernel.UUID{w.confirmedParcel(t, companyID), w.confirmedParcel(t, companyID)}
	for _, id := range members {
		_, err := w.join(t, groupID, id)
		require.NoError(t, err)
	}

	// Act
	err := w.cancel(t, members[0])

	// Assert
	require.ErrorIs(t, err, commands.ErrParcelInGroup)
	assert.Equal(t, parcel.Confirmed, w.parcel(members[0]).Status())
	assert.Equal(t, 2, w.store.groups[groupID].CurrentMembers())
}

func TestCancelGroup_ReleasesMembers(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{})
	parcelID := w.confirmedParcel(t, companyID)
	_, err := w.join(t, groupID, parcelID)
	require.NoError(t, err)

	// Act
	cmd, err := commands.NewCancelGroupCommand(groupID)
	require.NoError(t, err)
	err = commands.NewCancelGroupCommandHandler(w.rt).Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	g := w.store.groups[groupID]
	assert.Equal(t, group.Cancelled, g.Status())
	assert.Equal(t, group.CancelledByCompany, g.CloseReason())
	assert.Nil(t, w.parcel(parcelID).GroupID())
}

func TestCompleteGroupPickup_ParcelsStillWaiting(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	agentID := w.agent(t, companyID, "Ravi", "Bengaluru")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	first, second := w.confirmedParcel(t, companyID), w.confirmedParcel(t, companyID)
	for _, id := range []kernel.UUID{first, second} {
		_, err := w.join(t, groupID, id)
		require.NoError(t, err)
	}
	w.acceptOffer(t, assignment.GroupLegSubject(groupID, assignment.PickupLeg))
	pickUp, err := commands.NewPickUpGroupParcelCommand(groupID, first, agentID, otp)
	require.NoError(t, err)
	require.NoError(t, commands.NewPickUpGroupParcelCommandHandler(w.rt).Handle(t.Context(), pickUp))

	// Act
	cmd, err := commands.NewCompleteGroupPickupCommand(groupID, agentID)
	require.NoError(t, err)
	err = commands.NewCompleteGroupPickupCommandHandler(w.rt).Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrGroupParcelsPending)
	assert.Equal(t, group.PickingUp, w.store.groups[groupID].Status())
	assert.Equal(t, parcel.Assigned, w.parcel(second).Status())
}

func TestManualAssignGroupLeg_AfterNobodyAtWarehouse(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	for range 2 {
		_, err := w.join(t, groupID, w.confirmedParcel(t, companyID))
		require.NoError(t, err)
	}
	require.True(t, w.store.groups[groupID].NeedsReassignment())
	agentID := w.agent(t, companyID, "Ravi", "Mysuru")

	// Act
	cmd, err := commands.NewManualAssignGroupLegCommand(groupID, assignment.PickupLeg, agentID)
	require.NoError(t, err)
	offerID, err := commands.NewManualAssignCommandHandler(w.rt).Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, w.store.groups[groupID].NeedsReassignment())
	require.NoError(t, w.respond(t, offerID, agentID, true))
	assert.Equal(t, group.PickingUp, w.store.groups[groupID].Status())
}

func TestDispatchGroupLeg_FlaggedGroupIsNotRedispatched(t *testing.T) {
	// Arrange
	w := newWorld(t)
	companyID := w.company(t, "0.10", "0.20")
	groupID := w.openGroup(t, companyID, commands.GroupTerms{TargetMembers: 2, MinMembers: 2})
	for range 2 {
		_, err := w.join(t, groupID, w.confirmedParcel(t, companyID))
		require.NoError(t, err)
	}
	w.agent(t, companyID, "Ravi", "Bengaluru")

	// Act
	cmd, err := commands.NewDispatchGroupLegCommand(groupID, assignment.PickupLeg)
	require.NoError(t, err)
	_, err = commands.NewDispatchGroupLegCommandHandler(w.rt).Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrNeedsReassignment)
	assert.Nil(t, w.activeAssignment(assignment.GroupLegSubject(groupID, assignment.PickupLeg)))
}
