package commands

import (
	"errors"
	"time"

	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

const DefaultRelayBatchSize = 200

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

type RelayOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int
	now       time.Time

	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(batchSize int, now time.Time) (RelayOutboxCommand, error) {
	if batchSize <= 0 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "+inf")
	}

	return RelayOutboxCommand{
		batchSize: batchSize,
		now:       now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int {
	return c.batchSize
}

func (c RelayOutboxCommand) Now() time.Time {
	return c.now
}
