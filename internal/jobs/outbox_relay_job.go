package jobs

import (
	"context"
	"log/slog"
	"time"

	"iskxpress/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// maxRelayRoundsPerTick bounds how long one tick keeps draining a backlog.
const maxRelayRoundsPerTick = 10

type outboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob moves recorded order events from the outbox to the broker.
type OutboxRelayJob struct {
	handler   outboxRelayer
	schedule  string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(handler outboxRelayer, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Outbox relay job started", "schedule", j.schedule, "batchSize", j.batchSize)
	return nil
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}

// run relays full batches until the outbox is drained or the round limit is hit.
func (j *OutboxRelayJob) run(ctx context.Context) {
	total := 0
	for range maxRelayRoundsPerTick {
		cmd, err := commands.NewRelayOutboxCommand(j.batchSize, j.now().UTC())
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay misconfigured", "error", err)
			return
		}

		n, err := j.handler.Handle(ctx, cmd)
		total += n
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err, "published", total)
			return
		}
		if n < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.DebugContext(ctx, "Outbox events published", "count", total)
	}
}
