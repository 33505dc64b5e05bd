package commands

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand is the buyer acknowledging receipt within the confirmation window.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	now     time.Time

	guard guard.ConstructorGuard
}

func NewConfirmOrderCommand(orderID kernel.UUID, actor kernel.Actor, now time.Time) (ConfirmOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Role().Validate()); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return ConfirmOrderCommand{
		orderID: orderID,
		actor:   actor,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmOrderCommand) Now() time.Time {
	return c.now
}
