package agent_test

import (
	"testing"
	"time"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAvailableAgent(t *testing.T, maxOrders int) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(kernel.NewUUID(), kernel.NewUUID(), "Kiran", "9000000000", "Chennai",
		[]string{"600001", " 600002 ", "600001"}, maxOrders)
	require.NoError(t, err)
	require.NoError(t, a.SetAvailability(true))
	return a
}

func TestNewAgent(t *testing.T) {
	t.Run("should create active but unavailable agent", func(t *testing.T) {
		a, err := agent.NewAgent(kernel.NewUUID(), kernel.NewUUID(), "Kiran", "", "Chennai", nil, 2)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.IsActive())
		assert.False(t, a.IsAvailable())
		assert.False(t, a.CanTakeOrders())
	})

	t.Run("should collect every validation error", func(t *testing.T) {
		a, err := agent.NewAgent(kernel.UUID{}, kernel.NewUUID(), " ", "", "", nil, 0)

		require.Error(t, err)
		assert.Nil(t, a)
		assert.ErrorIs(t, err, agent.ErrNameIsRequired)
		assert.ErrorIs(t, err, agent.ErrCityIsRequired)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Contains(t, err.Error(), "max concurrent orders")
	})

	t.Run("should deduplicate service pincodes", func(t *testing.T) {
		a := createAvailableAgent(t, 1)
		assert.Equal(t, []string{"600001", "600002"}, a.ServicePincodes())
	})
}

func TestAgent_Slots(t *testing.T) {
	a := createAvailableAgent(t, 2)

	require.NoError(t, a.TakeSlot())
	require.NoError(t, a.TakeSlot())
	assert.False(t, a.HasFreeSlot())
	assert.ErrorIs(t, a.TakeSlot(), errs.ErrAgentNotAvailable)
	assert.Equal(t, 2, a.CurrentOrdersCount())

	a.ReleaseSlot()
	a.ReleaseSlot()
	a.ReleaseSlot()
	assert.Equal(t, 0, a.CurrentOrdersCount())
}

func TestAgent_Availability(t *testing.T) {
	a := createAvailableAgent(t, 1)

	a.Deactivate()
	assert.False(t, a.CanTakeOrders())
	assert.ErrorIs(t, a.SetAvailability(true), errs.ErrAgentNotAvailable)

	a.Activate()
	require.NoError(t, a.SetAvailability(true))
	assert.True(t, a.CanTakeOrders())
}

func TestAgent_Covers(t *testing.T) {
	a := createAvailableAgent(t, 1)

	assert.True(t, a.Covers("chennai", "999999"))
	assert.True(t, a.Covers("Kanchipuram", "600002"))
	assert.False(t, a.Covers("Madurai", "625001"))
}

func TestAgent_UpdateLocation(t *testing.T) {
	a := createAvailableAgent(t, 1)
	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, a.UpdateLocation(kernel.Coordinates{Latitude: 13, Longitude: 80}, at))
	require.NotNil(t, a.LocationUpdatedAt())
	assert.Equal(t, at, *a.LocationUpdatedAt())

	assert.ErrorIs(t, a.UpdateLocation(kernel.Coordinates{Longitude: 200}, at), errs.ErrValueIsOutOfRange)
}

func TestRestoreAgent(t *testing.T) {
	t.Run("current load above capacity is rejected", func(t *testing.T) {
		_, err := agent.RestoreAgent(agent.Snapshot{
			ID: kernel.NewUUID(), CompanyID: kernel.NewUUID(), Name: "A", City: "Pune",
			MaxConcurrentOrders: 1, CurrentOrdersCount: 2,
		})
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("restores load and version", func(t *testing.T) {
		a, err := agent.RestoreAgent(agent.Snapshot{
			ID: kernel.NewUUID(), CompanyID: kernel.NewUUID(), Name: "A", City: "Pune",
			IsActive: true, IsAvailable: true, MaxConcurrentOrders: 3, CurrentOrdersCount: 1,
			RatingAvg: 4.5, Version: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, a.CurrentOrdersCount())
		assert.InDelta(t, 4.5, a.RatingAvg(), 0.0001)
		assert.Equal(t, int64(3), a.Version())
	})
}
