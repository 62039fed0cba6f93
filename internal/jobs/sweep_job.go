package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Locker grants a cluster-wide lock for the duration of one run.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// runFunc executes one sweep and returns the log fields describing what it changed, or
// none when nothing changed.
type runFunc func(ctx context.Context) ([]zap.Field, error)

// SweepJob runs one sweep on a cron schedule under a lock.
type SweepJob struct {
	name     string
	schedule string
	timeout  time.Duration
	run      runFunc
	locker   Locker
	cron     *cron.Cron
	logger   *zap.Logger
}

func newSweepJob(name, schedule string, timeout time.Duration, run runFunc, locker Locker, logger *zap.Logger) *SweepJob {
	logger = logger.With(zap.String("component", name))
	return &SweepJob{
		name:     name,
		schedule: schedule,
		timeout:  timeout,
		run:      run,
		locker:   locker,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		logger: logger,
	}
}

func (j *SweepJob) Name() string { return j.name }

func (j *SweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("job stopped")
}

// RunOnce performs a single locked run. The lock outlives the run's timeout so it cannot
// expire while the sweep still writes.
func (j *SweepJob) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	release, ok, err := j.locker.TryLock(ctx, j.name, j.timeout+time.Minute)
	if err != nil {
		j.logger.Error("lock not acquired", zap.Error(err))
		return
	}
	if !ok {
		j.logger.Debug("another instance is sweeping")
		return
	}
	defer func() {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			j.logger.Warn("lock not released", zap.Error(releaseErr))
		}
	}()

	started := time.Now()
	fields, err := j.run(ctx)
	if err != nil {
		j.logger.Error("sweep failed", zap.Error(err))
		return
	}
	if len(fields) > 0 {
		j.logger.Info("sweep done", append(fields, zap.Duration("took", time.Since(started)))...)
	}
}

// cronLogger lets cron report skipped overlapping runs through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
