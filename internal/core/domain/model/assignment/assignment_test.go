package assignment_test

import (
	"testing"
	"time"

	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offeredAt = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

const timeout = 2 * time.Minute

func newOffer(t *testing.T, agentID kernel.UUID) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(kernel.NewUUID(), assignment.ParcelSubject(kernel.NewUUID()), agentID,
		1, 0, offeredAt, timeout)
	require.NoError(t, err)
	return a
}

func TestNewAssignment(t *testing.T) {
	agentID := kernel.NewUUID()
	a := newOffer(t, agentID)

	require.NoError(t, a.Validate())
	assert.Equal(t, assignment.Pending, a.Status())
	assert.Equal(t, offeredAt.Add(timeout), a.RespondBy())
	assert.True(t, a.Status().IsActive())

	_, err := assignment.NewAssignment(kernel.NewUUID(), assignment.ParcelSubject(kernel.NewUUID()), agentID,
		0, 0, offeredAt, timeout)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = assignment.NewAssignment(kernel.NewUUID(), assignment.GroupLegSubject(kernel.NewUUID(), assignment.NoLeg),
		agentID, 1, 0, offeredAt, timeout)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAssignment_Respond(t *testing.T) {
	agentID := kernel.NewUUID()

	t.Run("accept before deadline", func(t *testing.T) {
		a := newOffer(t, agentID)

		require.NoError(t, a.Accept(agentID, offeredAt.Add(time.Minute)))
		assert.Equal(t, assignment.Accepted, a.Status())
		require.NotNil(t, a.RespondedAt())
	})

	t.Run("response one millisecond late is expired", func(t *testing.T) {
		a := newOffer(t, agentID)

		err := a.Accept(agentID, a.RespondBy().Add(time.Millisecond))

		require.ErrorIs(t, err, errs.ErrAssignmentExpired)
		assert.Equal(t, assignment.Pending, a.Status())
	})

	t.Run("response exactly at the deadline is expired", func(t *testing.T) {
		a := newOffer(t, agentID)
		assert.ErrorIs(t, a.Reject(agentID, "", a.RespondBy()), errs.ErrAssignmentExpired)
	})

	t.Run("late response after the sweep is still expired", func(t *testing.T) {
		a := newOffer(t, agentID)
		require.True(t, a.Expire(a.RespondBy()))

		assert.ErrorIs(t, a.Accept(agentID, a.RespondBy().Add(time.Millisecond)), errs.ErrAssignmentExpired)
	})

	t.Run("other agent cannot answer", func(t *testing.T) {
		a := newOffer(t, agentID)
		assert.ErrorIs(t, a.Accept(kernel.NewUUID(), offeredAt), errs.ErrAgentNotAvailable)
	})

	t.Run("second answer is refused", func(t *testing.T) {
		a := newOffer(t, agentID)
		require.NoError(t, a.Reject(agentID, " too far ", offeredAt))

		assert.ErrorIs(t, a.Accept(agentID, offeredAt), errs.ErrAssignmentAlreadyResponded)
		assert.Equal(t, assignment.Rejected, a.Status())
		assert.Equal(t, "too far", a.RejectionReason())
	})
}

func TestAssignment_ResolvedNeverTransitions(t *testing.T) {
	agentID := kernel.NewUUID()
	late := offeredAt.Add(time.Hour)

	resolved := map[string]func(t *testing.T, a *assignment.Assignment){
		"rejected":   func(t *testing.T, a *assignment.Assignment) { require.NoError(t, a.Reject(agentID, "", offeredAt)) },
		"expired":    func(t *testing.T, a *assignment.Assignment) { require.True(t, a.Expire(late)) },
		"superseded": func(t *testing.T, a *assignment.Assignment) { require.NoError(t, a.Supersede(offeredAt)) },
	}

	for name, resolve := range resolved {
		t.Run(name, func(t *testing.T) {
			a := newOffer(t, agentID)
			resolve(t, a)
			status := a.Status()

			assert.Error(t, a.Accept(agentID, offeredAt))
			assert.Error(t, a.Reject(agentID, "", offeredAt))
			assert.False(t, a.Expire(late))
			assert.ErrorIs(t, a.Supersede(late), errs.ErrInvalidStatusTransition)
			assert.Equal(t, status, a.Status())
		})
	}
}

func TestAssignment_Expire(t *testing.T) {
	agentID := kernel.NewUUID()
	a := newOffer(t, agentID)

	assert.False(t, a.Expire(offeredAt.Add(time.Second)), "not yet due")
	assert.True(t, a.Expire(a.RespondBy()))
	assert.False(t, a.Expire(a.RespondBy()), "second sweep is a no-op")
	assert.Equal(t, assignment.Expired, a.Status())
}

func TestAssignment_SupersedeAccepted(t *testing.T) {
	agentID := kernel.NewUUID()
	a := newOffer(t, agentID)
	require.NoError(t, a.Accept(agentID, offeredAt))

	require.NoError(t, a.Supersede(offeredAt.Add(time.Hour)))

	assert.Equal(t, assignment.Superseded, a.Status())
	assert.False(t, a.Status().IsActive())
	assert.Equal(t, offeredAt, *a.RespondedAt())
}

func TestSubject(t *testing.T) {
	groupID := kernel.NewUUID()
	pickup := assignment.GroupLegSubject(groupID, assignment.PickupLeg)

	assert.True(t, pickup.IsGroupLeg())
	assert.True(t, pickup.IsEqual(assignment.GroupLegSubject(groupID, assignment.PickupLeg)))
	assert.False(t, pickup.IsEqual(assignment.GroupLegSubject(groupID, assignment.DeliveryLeg)))
	assert.Equal(t, "group:"+groupID.String()+":Pickup", pickup.String())
}
