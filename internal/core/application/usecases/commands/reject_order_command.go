package commands

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand asks the vendor's stall to decline a Pending order. The reason is
// checked by the order itself, after the transition, so a non-Pending order reports an
// invalid transition whatever the reason.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	actor   kernel.Actor
	now     time.Time

	guard guard.ConstructorGuard
}

func NewRejectOrderCommand(orderID kernel.UUID, reason string, actor kernel.Actor, now time.Time) (RejectOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Role().Validate()); err != nil {
		return RejectOrderCommand{}, err
	}

	return RejectOrderCommand{
		orderID: orderID,
		reason:  reason,
		actor:   actor,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectOrderCommand) Reason() string {
	return c.reason
}

func (c RejectOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RejectOrderCommand) Now() time.Time {
	return c.now
}
