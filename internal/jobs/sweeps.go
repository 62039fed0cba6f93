package jobs

import (
	"context"
	"time"

	"tpts/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// Schedules are cron specs with seconds, or descriptors such as "@every 30s".
type Schedules struct {
	AssignmentTimeout string
	GroupDeadline     string
	Clearance         string
	PendingDispatch   string
	// RunTimeout bounds a single run of any sweep.
	RunTimeout time.Duration
}

func DefaultSchedules() Schedules {
	return Schedules{
		AssignmentTimeout: "@every 15s",
		GroupDeadline:     "@every 1m",
		Clearance:         "@every 5m",
		PendingDispatch:   "@every 30s",
		RunTimeout:        2 * time.Minute,
	}
}

// Handlers are the sweep commands the jobs drive.
type Handlers struct {
	ExpireAssignments   commands.ExpireAssignmentsCommandHandler
	SweepGroupDeadlines commands.SweepGroupDeadlinesCommandHandler
	ClearEarnings       commands.ClearEarningsCommandHandler
	DispatchPending     commands.DispatchPendingCommandHandler
}

func NewAssignmentTimeoutJob(h commands.ExpireAssignmentsCommandHandler, s Schedules, locker Locker, logger *zap.Logger) *SweepJob {
	return newSweepJob("assignment-timeout", s.AssignmentTimeout, s.RunTimeout, func(ctx context.Context) ([]zap.Field, error) {
		expired, err := h.Handle(ctx, commands.NewExpireAssignmentsCommand())
		if err != nil || expired == 0 {
			return nil, err
		}
		return []zap.Field{zap.Int("expired", expired)}, nil
	}, locker, logger)
}

func NewGroupDeadlineJob(h commands.SweepGroupDeadlinesCommandHandler, s Schedules, locker Locker, logger *zap.Logger) *SweepJob {
	return newSweepJob("group-deadline", s.GroupDeadline, s.RunTimeout, func(ctx context.Context) ([]zap.Field, error) {
		expired, err := h.Handle(ctx, commands.NewSweepGroupDeadlinesCommand())
		if err != nil || expired == 0 {
			return nil, err
		}
		return []zap.Field{zap.Int("groups", expired)}, nil
	}, locker, logger)
}

func NewClearanceJob(h commands.ClearEarningsCommandHandler, s Schedules, locker Locker, logger *zap.Logger) *SweepJob {
	return newSweepJob("earning-clearance", s.Clearance, s.RunTimeout, func(ctx context.Context) ([]zap.Field, error) {
		cleared, err := h.Handle(ctx, commands.NewClearEarningsCommand())
		if err != nil || cleared == (commands.Cleared{}) {
			return nil, err
		}
		return []zap.Field{
			zap.Int("transactions", cleared.Transactions),
			zap.Int("earnings", cleared.Earnings),
		}, nil
	}, locker, logger)
}

func NewPendingDispatchJob(h commands.DispatchPendingCommandHandler, s Schedules, locker Locker, logger *zap.Logger) *SweepJob {
	return newSweepJob("pending-dispatch", s.PendingDispatch, s.RunTimeout, func(ctx context.Context) ([]zap.Field, error) {
		dispatched, err := h.Handle(ctx, commands.NewDispatchPendingCommand())
		if err != nil || dispatched == (commands.Dispatched{}) {
			return nil, err
		}
		return []zap.Field{
			zap.Int("parcels", dispatched.Parcels),
			zap.Int("group_legs", dispatched.GroupLegs),
		}, nil
	}, locker, logger)
}
