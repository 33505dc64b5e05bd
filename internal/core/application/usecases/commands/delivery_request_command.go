package commands

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/guard"
)

var (
	ErrCompleteDeliveryRequestCommandIsNotConstructed = errors.New(
		"CompleteDeliveryRequestCommand must be created via NewCompleteDeliveryRequestCommand constructor",
	)
	ErrCancelDeliveryRequestCommandIsNotConstructed = errors.New(
		"CancelDeliveryRequestCommand must be created via NewCancelDeliveryRequestCommand constructor",
	)
	ErrCreateDeliveryRequestCommandIsNotConstructed = errors.New(
		"CreateDeliveryRequestCommand must be created via NewCreateDeliveryRequestCommand constructor",
	)
)

// requestAction is the shared payload of the commands acting on one delivery request.
type requestAction struct {
	id    kernel.UUID
	actor kernel.Actor
	now   time.Time
	guard guard.ConstructorGuard
}

func newRequestAction(id kernel.UUID, actor kernel.Actor, now time.Time) (requestAction, error) {
	if err := errors.Join(id.Validate(), actor.Role().Validate()); err != nil {
		return requestAction{}, err
	}
	return requestAction{id: id, actor: actor, now: now, guard: guard.NewConstructorGuard()}, nil
}

// CompleteDeliveryRequestCommand closes an Assigned request. The assigned partner or
// the system may complete it.
type CompleteDeliveryRequestCommand struct {
	requestAction
}

func NewCompleteDeliveryRequestCommand(requestID kernel.UUID, actor kernel.Actor, now time.Time) (CompleteDeliveryRequestCommand, error) {
	a, err := newRequestAction(requestID, actor, now)
	return CompleteDeliveryRequestCommand{a}, err
}

func (c CompleteDeliveryRequestCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryRequestCommandIsNotConstructed)
}

func (c CompleteDeliveryRequestCommand) RequestID() kernel.UUID {
	return c.id
}

func (c CompleteDeliveryRequestCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CompleteDeliveryRequestCommand) Now() time.Time {
	return c.now
}

// CancelDeliveryRequestCommand withdraws a Pending or Assigned request. The assigned
// partner, the order's vendor or the system may cancel it.
type CancelDeliveryRequestCommand struct {
	requestAction
}

func NewCancelDeliveryRequestCommand(requestID kernel.UUID, actor kernel.Actor, now time.Time) (CancelDeliveryRequestCommand, error) {
	a, err := newRequestAction(requestID, actor, now)
	return CancelDeliveryRequestCommand{a}, err
}

func (c CancelDeliveryRequestCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryRequestCommandIsNotConstructed)
}

func (c CancelDeliveryRequestCommand) RequestID() kernel.UUID {
	return c.id
}

func (c CancelDeliveryRequestCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CancelDeliveryRequestCommand) Now() time.Time {
	return c.now
}

// CreateDeliveryRequestCommand re-dispatches a delivery order whose last request was
// cancelled. Only the order's vendor may do it.
type CreateDeliveryRequestCommand struct {
	requestAction
}

func NewCreateDeliveryRequestCommand(orderID kernel.UUID, actor kernel.Actor, now time.Time) (CreateDeliveryRequestCommand, error) {
	a, err := newRequestAction(orderID, actor, now)
	return CreateDeliveryRequestCommand{a}, err
}

func (c CreateDeliveryRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryRequestCommandIsNotConstructed)
}

func (c CreateDeliveryRequestCommand) OrderID() kernel.UUID {
	return c.id
}

func (c CreateDeliveryRequestCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateDeliveryRequestCommand) Now() time.Time {
	return c.now
}
