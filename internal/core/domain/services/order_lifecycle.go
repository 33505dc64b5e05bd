package services

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"
)

var (
	// ErrNoAssignedRequest is the cause attached when a delivery order is handed over
	// without a request that a partner took.
	ErrNoAssignedRequest = errors.New("order has no assigned delivery request")

	// ErrConfirmationExists is the cause attached when an order would open a second
	// confirmation window.
	ErrConfirmationExists = errors.New("order already has a confirmation")
)

// Transition is the result of advancing an order: the order itself plus the records
// the move opened or closed. Nil fields were not touched.
type Transition struct {
	Order            *order.Order
	OpenedRequest    *delivery.Request
	CompletedRequest *delivery.Request
	Confirmation     *confirmation.Confirmation
}

// OrderLifecycle couples order status changes with the delivery request and
// confirmation records that must change with them.
type OrderLifecycle struct {
	window time.Duration
}

// NewOrderLifecycle creates the lifecycle with the confirmation window applied on hand-over.
func NewOrderLifecycle(window time.Duration) OrderLifecycle {
	if window <= 0 {
		window = confirmation.DefaultWindow
	}
	return OrderLifecycle{window: window}
}

// Window is the confirmation window opened on handover.
func (l OrderLifecycle) Window() time.Duration {
	return l.window
}

// Advance moves o to target on behalf of actor.
//
// current is the order's latest delivery request that was not cancelled, or nil;
// existing is the order's confirmation, or nil. On failure nothing is modified.
//
//   - Delivery orders accepted into ToPrepare open a Pending delivery request.
//   - Delivery orders enter ToReceive only when current is Assigned to the acting
//     partner (it is completed here) or was already Completed.
//   - Entering ToReceive opens the confirmation window.
func (l OrderLifecycle) Advance(
	o *order.Order,
	target order.Status,
	actor kernel.Actor,
	current *delivery.Request,
	existing *confirmation.Confirmation,
	now time.Time,
) (Transition, error) {
	switch target {
	case order.ToPrepare:
		return l.accept(o, actor, current, now)
	case order.ToReceive:
		return l.handOver(o, actor, current, existing, now)
	default:
		if err := o.TransitionTo(target, actor, now); err != nil {
			return Transition{}, err
		}
		return Transition{Order: o}, nil
	}
}

// OpenRequest re-dispatches a delivery order whose previous request was cancelled.
func (l OrderLifecycle) OpenRequest(o *order.Order, current *delivery.Request, now time.Time) (*delivery.Request, error) {
	if o.FulfillmentMethod() != order.Delivery {
		return nil, errs.NewValueIsInvalidError("fulfillmentMethod")
	}
	if o.Status() != order.ToPrepare && o.Status() != order.ToDeliver {
		return nil, errs.NewInvalidTransitionError("order", o.Status().String(), "delivery requested")
	}
	if current != nil && current.IsActive() {
		return nil, errs.NewConflictError("delivery request", current.ID().String())
	}
	return delivery.NewRequest(kernel.NewUUID(), o.ID(), now)
}

// Confirm finalizes the confirmation for the order's buyer and accomplishes the order.
func (l OrderLifecycle) Confirm(o *order.Order, c *confirmation.Confirmation, actor kernel.Actor, now time.Time) error {
	if actor.Role() != kernel.RoleUser || !actor.ID().IsEqual(o.UserID()) {
		return errs.NewPermissionError(actor.String(), "confirm order "+o.ID().String())
	}
	if !c.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidError("orderId")
	}
	if err := c.Confirm(now); err != nil {
		return err
	}
	return o.Accomplish(actor, now)
}

// AutoConfirm finalizes an expired confirmation for the system and accomplishes the order.
func (l OrderLifecycle) AutoConfirm(o *order.Order, c *confirmation.Confirmation, now time.Time) error {
	if !c.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidError("orderId")
	}
	if err := c.AutoConfirm(now); err != nil {
		return err
	}
	return o.Accomplish(kernel.SystemActor(), now)
}

func (l OrderLifecycle) accept(o *order.Order, actor kernel.Actor, current *delivery.Request, now time.Time) (Transition, error) {
	if _, err := o.Status().MoveTo(order.ToPrepare); err != nil {
		return Transition{}, err
	}
	// Checked before the request lookup so a foreign vendor learns nothing about the order.
	if !actor.RunsStall(o.StallID()) {
		return Transition{}, errs.NewPermissionError(actor.String(), "accept order "+o.ID().String())
	}

	var opened *delivery.Request
	if o.FulfillmentMethod() == order.Delivery {
		if current != nil && current.IsActive() {
			return Transition{}, errs.NewConflictError("delivery request", current.ID().String())
		}
		req, err := delivery.NewRequest(kernel.NewUUID(), o.ID(), now)
		if err != nil {
			return Transition{}, err
		}
		opened = req
	}

	if err := o.Accept(actor, now); err != nil {
		return Transition{}, err
	}
	return Transition{Order: o, OpenedRequest: opened}, nil
}

func (l OrderLifecycle) handOver(
	o *order.Order,
	actor kernel.Actor,
	current *delivery.Request,
	existing *confirmation.Confirmation,
	now time.Time,
) (Transition, error) {
	from := o.Status()
	if _, err := from.MoveTo(order.ToReceive); err != nil {
		return Transition{}, err
	}
	if existing != nil {
		return Transition{}, errs.NewInvalidTransitionErrorWithCause("order", from.String(), order.ToReceive.String(), ErrConfirmationExists)
	}

	var completed *delivery.Request
	if o.FulfillmentMethod() == order.Delivery {
		if current == nil || (current.Status() != delivery.Assigned && current.Status() != delivery.Completed) {
			return Transition{}, errs.NewInvalidTransitionErrorWithCause("order", from.String(), order.ToReceive.String(), ErrNoAssignedRequest)
		}
		if !current.IsAssignedTo(actor.ID()) {
			return Transition{}, errs.NewPermissionError(actor.String(), "hand over order "+o.ID().String())
		}
		if current.Status() == delivery.Assigned {
			completed = current
		}
	}

	opened, err := confirmation.New(kernel.NewUUID(), o.ID(), now, l.window)
	if err != nil {
		return Transition{}, err
	}
	if err = o.HandOver(actor, now); err != nil {
		return Transition{}, err
	}
	if completed != nil {
		if err = completed.Complete(now); err != nil {
			return Transition{}, err
		}
	}

	return Transition{Order: o, CompletedRequest: completed, Confirmation: opened}, nil
}
