package jobs

import (
	"context"
	"log/slog"
	"time"

	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const confirmationSweepLease = "confirmation-sweep"

type confirmationSweeper interface {
	Handle(ctx context.Context, cmd commands.SweepExpiredConfirmationsCommand) ([]*confirmation.Confirmation, error)
}

// ConfirmationSweepJob auto-confirms orders whose buyers let the confirmation window
// close. Each tick first takes the sweep lease, so only one instance sweeps at a
// time; without a lease every instance sweeps and row locks keep them apart.
type ConfirmationSweepJob struct {
	handler   confirmationSweeper
	lease     ports.Lease
	leaseTTL  time.Duration
	schedule  string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewConfirmationSweepJob(
	handler confirmationSweeper,
	lease ports.Lease,
	schedule string,
	batchSize int,
	leaseTTL time.Duration,
	logger *slog.Logger,
) *ConfirmationSweepJob {
	return &ConfirmationSweepJob{
		handler:   handler,
		lease:     lease,
		leaseTTL:  leaseTTL,
		schedule:  schedule,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "confirmation_sweep_job"),
	}
}

func (j *ConfirmationSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Confirmation sweep job started", "schedule", j.schedule, "batchSize", j.batchSize)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *ConfirmationSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Confirmation sweep job stopped")
}

func (j *ConfirmationSweepJob) run(ctx context.Context) {
	if j.lease != nil {
		held, err := j.lease.TryAcquire(ctx, confirmationSweepLease, j.leaseTTL)
		if err != nil {
			j.logger.ErrorContext(ctx, "Confirmation sweep lease unavailable", "error", err)
			return
		}
		if !held {
			j.logger.DebugContext(ctx, "Confirmation sweep lease held elsewhere")
			return
		}
		defer func() {
			if err := j.lease.Release(ctx, confirmationSweepLease); err != nil {
				j.logger.WarnContext(ctx, "Confirmation sweep lease release failed", "error", err)
			}
		}()
	}

	cmd, err := commands.NewSweepExpiredConfirmationsCommand(j.now().UTC(), j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Confirmation sweep misconfigured", "error", err)
		return
	}

	swept, err := j.handler.Handle(ctx, cmd)
	if len(swept) > 0 {
		j.logger.InfoContext(ctx, "Auto-confirmed expired orders", "count", len(swept))
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Confirmation sweep failed", "error", err, "autoConfirmed", len(swept))
	}
}
