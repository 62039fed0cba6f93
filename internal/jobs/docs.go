// Package jobs runs the time-driven sweeps of the logistics core on cron schedules.
//
// # Jobs
//
//  1. assignment-timeout: expires Pending offers past their respond-by time and re-offers
//  2. group-deadline: expires Open groups past their deadline, dissolving under-minimum ones
//  3. earning-clearance: clears pending ledger entries whose holding period has passed
//  4. pending-dispatch: offers Confirmed parcels and waiting group legs to agents
//
// # Usage
//
//	jobManager := jobs.NewJobManager(handlers, jobs.DefaultSchedules(), locker, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Coordination
//
// Every tick first takes a Redis lock named after the job, so with several instances
// running only one sweeps at a time. A tick that finds the lock taken does nothing; the
// next tick catches up, since every sweep works from what is due at that moment and is
// idempotent. Overlapping ticks within one instance are skipped.
//
// # Error Handling
//
// Sweeps skip rows they cannot handle and report only listing failures, which are logged
// at error level. Runs that change nothing are not logged.
package jobs
