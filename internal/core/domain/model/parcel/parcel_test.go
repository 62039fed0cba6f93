package parcel_test

import (
	"testing"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pickupOtp   = "123456"
	deliveryOtp = "654321"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testParams(t *testing.T) parcel.Params {
	t.Helper()

	pickup, err := kernel.NewAddress("Ravi", "9000000001", "1 Anna Salai", "Chennai", "600002",
		kernel.Coordinates{Latitude: 13.06, Longitude: 80.26})
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("Meena", "9000000002", "7 Brigade Rd", "Bengaluru", "560001",
		kernel.Coordinates{Latitude: 12.97, Longitude: 77.6})
	require.NoError(t, err)
	pricing, err := parcel.NewPricing(decimal.NewFromInt(350), decimal.NewFromInt(1000), decimal.Zero)
	require.NoError(t, err)

	return parcel.Params{
		ID:             kernel.NewUUID(),
		TrackingNumber: "TRK-0001",
		CustomerID:     kernel.NewUUID(),
		CompanyID:      kernel.NewUUID(),
		Pickup:         pickup,
		Delivery:       delivery,
		Package:        parcel.Package{WeightKg: decimal.NewFromFloat(2.5), Type: "box"},
		Pricing:        pricing,
		PickupOtp:      pickupOtp,
		DeliveryOtp:    deliveryOtp,
	}
}

func newParcel(t *testing.T) *parcel.Parcel {
	t.Helper()
	p, err := parcel.NewParcel(testParams(t), now)
	require.NoError(t, err)
	return p
}

// inTransit drives a fresh parcel up to InTransit with agent.
func inTransit(t *testing.T, agent kernel.UUID) *parcel.Parcel {
	t.Helper()
	p := newParcel(t)
	require.NoError(t, p.MarkPaid("pay-1", now))
	require.NoError(t, p.Assign(agent, now))
	require.NoError(t, p.PickUp(pickupOtp, now))
	require.NoError(t, p.StartTransit(now))
	return p
}

func TestNewParcel(t *testing.T) {
	t.Run("starts created with payment pending", func(t *testing.T) {
		p := newParcel(t)

		require.NoError(t, p.Validate())
		assert.Equal(t, parcel.Created, p.Status())
		assert.Equal(t, parcel.PaymentPending, p.PaymentStatus())
		assert.Equal(t, now, p.Timeline().CreatedAt)
		assert.Nil(t, p.AgentID())
		assert.True(t, p.Pricing().Total().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects malformed otp and missing tracking number", func(t *testing.T) {
		params := testParams(t)
		params.PickupOtp = "12ab56"
		params.TrackingNumber = " "

		p, err := parcel.NewParcel(params, now)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "pickup otp")
		assert.ErrorIs(t, err, parcel.ErrTrackingNumberIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var p *parcel.Parcel
		assert.ErrorIs(t, p.Validate(), parcel.ErrParcelIsNotConstructed)
	})
}

func TestParcel_Payment(t *testing.T) {
	t.Run("success confirms", func(t *testing.T) {
		p := newParcel(t)

		require.NoError(t, p.MarkPaid("pay-1", now))

		assert.Equal(t, parcel.Confirmed, p.Status())
		assert.Equal(t, parcel.PaymentPaid, p.PaymentStatus())
		assert.Equal(t, "pay-1", p.PaymentRef())
		require.NotNil(t, p.Timeline().ConfirmedAt)
	})

	t.Run("duplicate success is rejected", func(t *testing.T) {
		p := newParcel(t)
		require.NoError(t, p.MarkPaid("pay-1", now))

		assert.ErrorIs(t, p.MarkPaid("pay-1", now), errs.ErrPaymentAlreadyProcessed)
	})

	t.Run("failure keeps the parcel created", func(t *testing.T) {
		p := newParcel(t)

		require.NoError(t, p.MarkPaymentFailed())

		assert.Equal(t, parcel.Created, p.Status())
		assert.Equal(t, parcel.PaymentFailed, p.PaymentStatus())
		require.NoError(t, p.MarkPaid("pay-2", now), "customer may retry checkout")
	})
}

func TestParcel_AssignOnlyFromConfirmed(t *testing.T) {
	p := newParcel(t)

	err := p.Assign(kernel.NewUUID(), now)

	require.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	assert.Equal(t, parcel.Created, p.Status())
}

func TestParcel_PickUpOtp(t *testing.T) {
	agent := kernel.NewUUID()
	assigned := func(t *testing.T) *parcel.Parcel {
		p := newParcel(t)
		require.NoError(t, p.MarkPaid("pay-1", now))
		require.NoError(t, p.Assign(agent, now))
		return p
	}

	t.Run("wrong otp does not consume it", func(t *testing.T) {
		p := assigned(t)

		require.ErrorIs(t, p.PickUp("000000", now), errs.ErrInvalidPickupOtp)
		assert.Equal(t, parcel.Assigned, p.Status())
		assert.Equal(t, pickupOtp, p.PickupOtp())

		require.NoError(t, p.PickUp(pickupOtp, now))
		assert.Equal(t, parcel.PickedUp, p.Status())
	})

	t.Run("verified otp cannot be reused", func(t *testing.T) {
		p := assigned(t)
		require.NoError(t, p.PickUp(pickupOtp, now))

		assert.Empty(t, p.PickupOtp())
		assert.ErrorIs(t, p.PickUp(pickupOtp, now), errs.ErrOtpExpired)
		assert.Equal(t, parcel.PickedUp, p.Status())
	})

	t.Run("pickup before assignment is an invalid transition", func(t *testing.T) {
		p := newParcel(t)

		assert.ErrorIs(t, p.PickUp(pickupOtp, now), errs.ErrInvalidStatusTransition)
		assert.Equal(t, pickupOtp, p.PickupOtp())
	})
}

func TestParcel_Deliver(t *testing.T) {
	agent := kernel.NewUUID()

	t.Run("requires the delivery otp", func(t *testing.T) {
		p := inTransit(t, agent)

		require.ErrorIs(t, p.Deliver(pickupOtp, "", now), errs.ErrInvalidDeliveryOtp)
		require.NoError(t, p.Deliver(deliveryOtp, "https://docs/pod.jpg", now))

		assert.Equal(t, parcel.Delivered, p.Status())
		assert.Equal(t, "https://docs/pod.jpg", p.ProofOfDeliveryURL())
		assert.Empty(t, p.DeliveryOtp())
		require.NotNil(t, p.Timeline().DeliveredAt)
	})

	t.Run("delivered parcel cannot be cancelled", func(t *testing.T) {
		p := inTransit(t, agent)
		require.NoError(t, p.Deliver(deliveryOtp, "", now))

		require.ErrorIs(t, p.Cancel("changed mind", now), errs.ErrInvalidStatusTransition)
		assert.Equal(t, parcel.Delivered, p.Status())
	})
}

func TestParcel_Cancel(t *testing.T) {
	t.Run("from any non-terminal state", func(t *testing.T) {
		p := newParcel(t)

		require.NoError(t, p.Cancel("duplicate order", now))

		assert.Equal(t, parcel.Cancelled, p.Status())
		assert.Equal(t, "duplicate order", p.CancellationReason())
		assert.ErrorIs(t, p.MarkPaid("late", now), errs.ErrInvalidStatusTransition)
	})

	t.Run("reason is required", func(t *testing.T) {
		p := newParcel(t)
		assert.ErrorIs(t, p.Cancel("  ", now), parcel.ErrCancellationReasonIsRequired)
	})
}

func TestParcel_Unassign(t *testing.T) {
	agent := kernel.NewUUID()
	p := newParcel(t)
	require.NoError(t, p.MarkPaid("pay-1", now))
	require.NoError(t, p.Assign(agent, now))

	released, err := p.Unassign()

	require.NoError(t, err)
	assert.True(t, released.IsEqual(agent))
	assert.Equal(t, parcel.Confirmed, p.Status())
	assert.Nil(t, p.AgentID())
}

func TestParcel_Group(t *testing.T) {
	t.Run("join applies discount and reports the reduction", func(t *testing.T) {
		p := newParcel(t)
		require.NoError(t, p.MarkPaid("pay-1", now))
		groupID := kernel.NewUUID()

		reduction, err := p.JoinGroup(groupID, kernel.Percent(15))

		require.NoError(t, err)
		assert.True(t, reduction.Equal(decimal.NewFromInt(150)))
		assert.True(t, p.Pricing().Total().Equal(decimal.NewFromInt(850)))
		assert.True(t, kernel.UUIDPtrEqual(p.GroupID(), &groupID))
		assert.False(t, p.IsDispatchable())

		p.LeaveGroup()
		assert.True(t, p.IsDispatchable())
		assert.True(t, p.Pricing().Total().Equal(decimal.NewFromInt(850)))
	})

	t.Run("join twice fails", func(t *testing.T) {
		p := newParcel(t)
		require.NoError(t, p.MarkPaid("pay-1", now))
		_, err := p.JoinGroup(kernel.NewUUID(), kernel.Percent(10))
		require.NoError(t, err)

		_, err = p.JoinGroup(kernel.NewUUID(), kernel.Percent(10))
		assert.ErrorIs(t, err, errs.ErrAlreadyJoinedGroup)
	})

	t.Run("handover only in transit", func(t *testing.T) {
		p := inTransit(t, kernel.NewUUID())
		next := kernel.NewUUID()

		require.NoError(t, p.HandOver(next))
		assert.True(t, kernel.UUIDPtrEqual(p.AgentID(), &next))

		fresh := newParcel(t)
		assert.ErrorIs(t, fresh.HandOver(next), errs.ErrInvalidStatusTransition)
	})
}

func TestRestoreParcel(t *testing.T) {
	t.Run("assigned parcel must reference an agent", func(t *testing.T) {
		_, err := parcel.RestoreParcel(parcel.Snapshot{
			Params:        testParams(t),
			Status:        parcel.Assigned,
			PaymentStatus: parcel.PaymentPaid,
		})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("keeps consumed otp and version", func(t *testing.T) {
		params := testParams(t)
		params.PickupOtp = ""
		agent := kernel.NewUUID()

		p, err := parcel.RestoreParcel(parcel.Snapshot{
			Params:        params,
			AgentID:       &agent,
			Status:        parcel.PickedUp,
			PaymentStatus: parcel.PaymentPaid,
			Version:       7,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), p.Version())
		assert.Empty(t, p.PickupOtp())
	})
}

func TestPricing(t *testing.T) {
	p, err := parcel.NewPricing(decimal.NewFromInt(12), decimal.RequireFromString("200.00"), kernel.Percent(18))
	require.NoError(t, err)
	assert.True(t, p.Tax().Equal(decimal.NewFromInt(36)))
	assert.True(t, p.Total().Equal(decimal.NewFromInt(236)))

	_, err = parcel.RestorePricing(p.DistanceKm(), p.BasePrice(), decimal.Zero, p.Tax(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errs.ErrDataIntegrity)

	_, err = p.WithDiscount(decimal.NewFromInt(2))
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
