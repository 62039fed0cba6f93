package services

import (
	"slices"
	"strings"
	"time"

	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
)

// RankingWeights weigh the components of an agent's dispatch score. Each component is
// normalised to [0, 1] with higher meaning better:
//   - Load: 1 / (1 + current orders), so idle agents score 1
//   - Rating: average rating / 5
//   - Recency: 1 / (1 + hours since the last location update), 0 when never reported
type RankingWeights struct {
	Load    float64 `yaml:"load"`
	Rating  float64 `yaml:"rating"`
	Recency float64 `yaml:"recency"`
}

// DefaultRankingWeights rank by load and rating equally and use recency only to break ties.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{Load: 1, Rating: 1, Recency: 0}
}

// Pickup is where the work starts; agents covering its city or pincode are eligible.
type Pickup struct {
	City    string
	Pincode string
}

// SelectionRequest describes one dispatch attempt.
type SelectionRequest struct {
	Pickup Pickup
	// Attempted agents were already offered this parcel or leg and are never offered it again.
	Attempted []kernel.UUID
	// Busy agents hold a pending offer elsewhere and are not double-booked.
	Busy []kernel.UUID
}

// AgentSelector is a domain service that picks the best eligible agent for an offer.
//
// Eligibility: active, available, with a free slot, covering the pickup, not attempted
// before for this subject and without a pending offer. Among eligible agents the highest
// weighted score wins; ties go to the most recent location update, then to the lowest id.
//
// Example usage:
//
//	selector := services.NewAgentSelector(services.DefaultRankingWeights())
//	best, err := selector.Select(req, candidates, clock.Now())
//	if errors.Is(err, errs.ErrNoAgentsAvailable) {
//	    // flag the parcel for the company
//	}
type AgentSelector struct {
	weights RankingWeights
}

func NewAgentSelector(weights RankingWeights) AgentSelector {
	return AgentSelector{weights: weights}
}

// Select returns the best eligible agent or errs.ErrNoAgentsAvailable.
func (s AgentSelector) Select(req SelectionRequest, candidates []*agent.Agent, now time.Time) (*agent.Agent, error) {
	ranked, err := s.Rank(req, candidates, now)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, errs.ErrNoAgentsAvailable
	}
	return ranked[0], nil
}

// Rank filters candidates down to eligible agents, best first.
func (s AgentSelector) Rank(req SelectionRequest, candidates []*agent.Agent, now time.Time) ([]*agent.Agent, error) {
	type scored struct {
		agent *agent.Agent
		score float64
	}

	eligible := make([]scored, 0, len(candidates))
	for _, a := range candidates {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if !s.isEligible(a, req) {
			continue
		}
		eligible = append(eligible, scored{agent: a, score: s.score(a, now)})
	}

	slices.SortStableFunc(eligible, func(x, y scored) int {
		if x.score != y.score {
			if x.score > y.score {
				return -1
			}
			return 1
		}
		if c := compareRecency(x.agent.LocationUpdatedAt(), y.agent.LocationUpdatedAt()); c != 0 {
			return c
		}
		return strings.Compare(x.agent.ID().String(), y.agent.ID().String())
	})

	ranked := make([]*agent.Agent, 0, len(eligible))
	for _, e := range eligible {
		ranked = append(ranked, e.agent)
	}
	return ranked, nil
}

func (s AgentSelector) isEligible(a *agent.Agent, req SelectionRequest) bool {
	if !a.CanTakeOrders() || !a.Covers(req.Pickup.City, req.Pickup.Pincode) {
		return false
	}
	return !containsID(req.Attempted, a.ID()) && !containsID(req.Busy, a.ID())
}

func (s AgentSelector) score(a *agent.Agent, now time.Time) float64 {
	load := 1 / float64(1+a.CurrentOrdersCount())
	rating := a.RatingAvg() / 5

	recency := 0.0
	if at := a.LocationUpdatedAt(); at != nil {
		hours := now.Sub(*at).Hours()
		if hours < 0 {
			hours = 0
		}
		recency = 1 / (1 + hours)
	}

	return s.weights.Load*load + s.weights.Rating*rating + s.weights.Recency*recency
}

// compareRecency orders the more recent update first; never-reported agents go last.
func compareRecency(x, y *time.Time) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return 1
	case y == nil:
		return -1
	case x.After(*y):
		return -1
	case y.After(*x):
		return 1
	}
	return 0
}

func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	return slices.ContainsFunc(ids, id.IsEqual)
}
