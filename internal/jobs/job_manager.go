package jobs

import (
	"fmt"
)

// JobManager coordinates the scheduled jobs of the service.
type JobManager struct {
	confirmationSweepJob *ConfirmationSweepJob
	outboxRelayJob       *OutboxRelayJob
}

// NewJobManager creates a manager for the sweep and relay jobs.
func NewJobManager(sweep *ConfirmationSweepJob, relay *OutboxRelayJob) *JobManager {
	return &JobManager{
		confirmationSweepJob: sweep,
		outboxRelayJob:       relay,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.confirmationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start confirmation sweep job: %w", err)
	}

	if err := jm.outboxRelayJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.confirmationSweepJob.Stop()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.confirmationSweepJob.Stop()
}
