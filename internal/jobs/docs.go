// Package jobs provides the scheduled background work of the order lifecycle.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution schedules and
// skip a tick while the previous one is still running.
//
// # Available Jobs
//
// 1. ConfirmationSweepJob - auto-confirms orders whose confirmation window closed,
// accomplishing them and accruing the stall's commission
// 2. OutboxRelayJob - publishes recorded order events to Kafka
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewConfirmationSweepJob(sweepHandler, lease, "0 * * * * *", 100, 30*time.Second, logger),
//		jobs.NewOutboxRelayJob(relayHandler, "*/2 * * * * *", 200, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Coordination
//
// The sweep takes a Redis lease per tick so a fleet of instances sweeps once. The
// lease is an optimization only: the sweep locks each row with SKIP LOCKED and
// finalizes it with a compare-and-set, so two sweepers never double-confirm.
//
// # Error Handling
//
// Jobs never stop on errors. Failures are logged and the next tick retries;
// deadlines and unpublished events are persisted, so nothing is lost.
package jobs
