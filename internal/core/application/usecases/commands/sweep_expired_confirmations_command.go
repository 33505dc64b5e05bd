package commands

import (
	"errors"
	"time"

	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

const DefaultSweepBatchSize = 100

var ErrSweepExpiredConfirmationsCommandIsNotConstructed = errors.New(
	"SweepExpiredConfirmationsCommand must be created via NewSweepExpiredConfirmationsCommand constructor",
)

type SweepExpiredConfirmationsCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewSweepExpiredConfirmationsCommand(now time.Time, batchSize int) (SweepExpiredConfirmationsCommand, error) {
	if now.IsZero() {
		return SweepExpiredConfirmationsCommand{}, errs.NewValueIsRequiredError("now")
	}
	if batchSize <= 0 {
		return SweepExpiredConfirmationsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "+inf")
	}

	return SweepExpiredConfirmationsCommand{
		now:       now,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SweepExpiredConfirmationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredConfirmationsCommandIsNotConstructed)
}

func (c SweepExpiredConfirmationsCommand) Now() time.Time {
	return c.now
}

func (c SweepExpiredConfirmationsCommand) BatchSize() int {
	return c.batchSize
}
