package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeLocker struct {
	held     bool
	err      error
	acquired int
	released int
}

func (l *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	l.acquired++
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, true, nil
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestSweepJob_RunsUnderLockAndReleases(t *testing.T) {
	locker := &fakeLocker{}
	logger, logs := observedLogger()
	calls := 0
	job := newSweepJob("test-sweep", "@every 1h", time.Second, func(context.Context) ([]zap.Field, error) {
		calls++
		assert.True(t, locker.held, "sweep runs while the lock is held")
		return []zap.Field{zap.Int("rows", 3)}, nil
	}, locker, logger)

	job.RunOnce(context.Background())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, locker.released)
	require.Equal(t, 1, logs.FilterMessage("sweep done").Len())
	entry := logs.FilterMessage("sweep done").All()[0]
	assert.Equal(t, "test-sweep", entry.ContextMap()["component"])
	assert.EqualValues(t, 3, entry.ContextMap()["rows"])
}

func TestSweepJob_SkipsWhenAnotherInstanceHoldsTheLock(t *testing.T) {
	locker := &fakeLocker{held: true}
	logger, _ := observedLogger()
	calls := 0
	job := newSweepJob("test-sweep", "@every 1h", time.Second, func(context.Context) ([]zap.Field, error) {
		calls++
		return nil, nil
	}, locker, logger)

	job.RunOnce(context.Background())

	assert.Zero(t, calls)
	assert.Zero(t, locker.acquired)
}

func TestSweepJob_LogsFailureAndStillReleases(t *testing.T) {
	locker := &fakeLocker{}
	logger, logs := observedLogger()
	job := newSweepJob("test-sweep", "@every 1h", time.Second, func(context.Context) ([]zap.Field, error) {
		return nil, errors.New("database unavailable")
	}, locker, logger)

	job.RunOnce(context.Background())

	assert.Equal(t, 1, locker.released)
	assert.Equal(t, 1, logs.FilterMessage("sweep failed").Len())
}

func TestSweepJob_QuietWhenNothingChanged(t *testing.T) {
	logger, logs := observedLogger()
	job := newSweepJob("test-sweep", "@every 1h", time.Second, func(context.Context) ([]zap.Field, error) {
		return nil, nil
	}, &fakeLocker{}, logger)

	job.RunOnce(context.Background())

	assert.Zero(t, logs.FilterMessage("sweep done").Len())
}

func TestSweepJob_LockErrorSkipsRun(t *testing.T) {
	logger, logs := observedLogger()
	calls := 0
	job := newSweepJob("test-sweep", "@every 1h", time.Second, func(context.Context) ([]zap.Field, error) {
		calls++
		return nil, nil
	}, &fakeLocker{err: errors.New("redis down")}, logger)

	job.RunOnce(context.Background())

	assert.Zero(t, calls)
	assert.Equal(t, 1, logs.FilterMessage("lock not acquired").Len())
}

func TestJobManager_StartAndStop(t *testing.T) {
	s := DefaultSchedules()
	jm := NewJobManager(Handlers{}, s, &fakeLocker{}, zap.NewNop())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

func TestJobManager_InvalidScheduleStopsStartedJobs(t *testing.T) {
	s := DefaultSchedules()
	s.Clearance = "not a schedule"
	jm := NewJobManager(Handlers{}, s, &fakeLocker{}, zap.NewNop())

	err := jm.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "earning-clearance")
}
