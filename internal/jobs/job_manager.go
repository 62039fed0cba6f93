package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs []*SweepJob
}

func NewJobManager(h Handlers, s Schedules, locker Locker, logger *zap.Logger) *JobManager {
	return &JobManager{
		jobs: []*SweepJob{
			NewAssignmentTimeoutJob(h.ExpireAssignments, s, locker, logger),
			NewGroupDeadlineJob(h.SweepGroupDeadlines, s, locker, logger),
			NewClearanceJob(h.ClearEarnings, s, locker, logger),
			NewPendingDispatchJob(h.DispatchPending, s, locker, logger),
		},
	}
}

// StartAll starts every job. If one fails to start, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
	}
	return nil
}

// StopAll stops all jobs, waiting for running sweeps to finish.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}
