// Package metrics holds the Prometheus collectors of the logistics core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentsOffered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_assignments_offered_total",
			Help: "Offers made to agents, by subject kind",
		},
		[]string{"subject"},
	)

	AssignmentsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_assignments_resolved_total",
			Help: "Resolved offers, by outcome",
		},
		[]string{"outcome"},
	)

	ReassignmentsFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tpts_reassignments_flagged_total",
			Help: "Parcels and groups surfaced to the company for manual assignment",
		},
	)

	GroupsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_groups_closed_total",
			Help: "Groups that stopped accepting members, by reason",
		},
		[]string{"reason"},
	)

	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_settlements_total",
			Help: "Ledger settlements posted, by kind",
		},
		[]string{"kind"},
	)

	SweepRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_sweep_rows_total",
			Help: "Rows changed by background sweeps",
		},
		[]string{"sweep"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tpts_side_effect_failures_total",
			Help: "After-commit side effects that failed",
		},
		[]string{"kind"},
	)
)
