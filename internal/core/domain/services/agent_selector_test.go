package services_test

import (
	"testing"
	"time"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/services"
	"tpts/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)

var chennai = services.Pickup{City: "Chennai", Pincode: "600001"}

type agentSpec struct {
	city      string
	pincodes  []string
	load, max int
	rating    float64
	available bool
	seenAgo   *time.Duration
}

func makeAgent(t *testing.T, s agentSpec) *agent.Agent {
	t.Helper()
	var seen *time.Time
	if s.seenAgo != nil {
		at := now.Add(-*s.seenAgo)
		seen = &at
	}
	a, err := agent.RestoreAgent(agent.Snapshot{
		ID: kernel.NewUUID(), CompanyID: kernel.NewUUID(), Name: "agent", City: s.city,
		ServicePincodes: s.pincodes, IsActive: true, IsAvailable: s.available,
		CurrentOrdersCount: s.load, MaxConcurrentOrders: s.max, RatingAvg: s.rating,
		LocationUpdatedAt: seen,
	})
	require.NoError(t, err)
	return a
}

func ago(d time.Duration) *time.Duration { return &d }

func TestAgentSelector_Eligibility(t *testing.T) {
	selector := services.NewAgentSelector(services.DefaultRankingWeights())

	unavailable := makeAgent(t, agentSpec{city: "Chennai", max: 2, rating: 5})
	full := makeAgent(t, agentSpec{city: "Chennai", load: 2, max: 2, rating: 5, available: true})
	elsewhere := makeAgent(t, agentSpec{city: "Madurai", max: 2, rating: 5, available: true})
	byPincode := makeAgent(t, agentSpec{city: "Tambaram", pincodes: []string{"600001"}, max: 2, rating: 3, available: true})
	attempted := makeAgent(t, agentSpec{city: "Chennai", max: 2, rating: 5, available: true})
	busy := makeAgent(t, agentSpec{city: "Chennai", max: 2, rating: 5, available: true})

	ranked, err := selector.Rank(services.SelectionRequest{
		Pickup:    chennai,
		Attempted: []kernel.UUID{attempted.ID()},
		Busy:      []kernel.UUID{busy.ID()},
	}, []*agent.Agent{unavailable, full, elsewhere, byPincode, attempted, busy}, now)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].IsEqual(byPincode))
}

func TestAgentSelector_Ranking(t *testing.T) {
	selector := services.NewAgentSelector(services.DefaultRankingWeights())

	t.Run("lower load wins at equal rating", func(t *testing.T) {
		busy := makeAgent(t, agentSpec{city: "Chennai", load: 1, max: 3, rating: 4, available: true})
		idle := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4, available: true})

		best, err := selector.Select(services.SelectionRequest{Pickup: chennai}, []*agent.Agent{busy, idle}, now)

		require.NoError(t, err)
		assert.True(t, best.IsEqual(idle))
	})

	t.Run("higher rating wins at equal load", func(t *testing.T) {
		low := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 3.5, available: true})
		high := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4.8, available: true})

		best, err := selector.Select(services.SelectionRequest{Pickup: chennai}, []*agent.Agent{low, high}, now)

		require.NoError(t, err)
		assert.True(t, best.IsEqual(high))
	})

	t.Run("ties go to the most recent location update", func(t *testing.T) {
		stale := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4, available: true, seenAgo: ago(time.Hour)})
		never := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4, available: true})
		fresh := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4, available: true, seenAgo: ago(time.Minute)})

		ranked, err := selector.Rank(services.SelectionRequest{Pickup: chennai}, []*agent.Agent{stale, never, fresh}, now)

		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].IsEqual(fresh))
		assert.True(t, ranked[1].IsEqual(stale))
		assert.True(t, ranked[2].IsEqual(never))
	})

	t.Run("weights are configurable", func(t *testing.T) {
		ratingOnly := services.NewAgentSelector(services.RankingWeights{Rating: 1})
		loaded := makeAgent(t, agentSpec{city: "Chennai", load: 2, max: 3, rating: 5, available: true})
		idle := makeAgent(t, agentSpec{city: "Chennai", max: 3, rating: 4, available: true})

		best, err := ratingOnly.Select(services.SelectionRequest{Pickup: chennai}, []*agent.Agent{idle, loaded}, now)

		require.NoError(t, err)
		assert.True(t, best.IsEqual(loaded))
	})
}

func TestAgentSelector_EmptyPool(t *testing.T) {
	selector := services.NewAgentSelector(services.DefaultRankingWeights())

	_, err := selector.Select(services.SelectionRequest{Pickup: chennai}, nil, now)

	assert.ErrorIs(t, err, errs.ErrNoAgentsAvailable)
}

func TestAgentSelector_RejectsUnconstructedAgent(t *testing.T) {
	selector := services.NewAgentSelector(services.DefaultRankingWeights())

	_, err := selector.Select(services.SelectionRequest{Pickup: chennai}, []*agent.Agent{{}}, now)

	assert.ErrorIs(t, err, agent.ErrAgentIsNotConstructed)
}
