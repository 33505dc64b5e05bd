package commands

import (
	"context"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/core/domain/services"
)

// UpdateOrderStatusCommandHandler drives an order through the status table.
//
// Accepting a delivery order opens its delivery request, and handing an order over
// opens the buyer's confirmation window; both are written in the transaction that
// updates the order. Two concurrent updates of one order serialize on its version:
// the second to commit gets an errs.ConflictError.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewUpdateOrderStatusCommandHandler creates a handler for forward status transitions.
func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, lifecycle services.OrderLifecycle) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle advances the order and persists whatever the transition opened or closed
// alongside it. A stale order version is an errs.ConflictError.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	var current *delivery.Request
	if o.FulfillmentMethod() == order.Delivery {
		current, err = uow.DeliveryRequestRepository().FindCurrentByOrder(ctx, o.ID())
		if err != nil {
			return nil, err
		}
	}

	var existing *confirmation.Confirmation
	if cmd.Target() == order.ToReceive {
		existing, err = uow.ConfirmationRepository().FindByOrder(ctx, o.ID())
		if err != nil {
			return nil, err
		}
	}

	tr, err := h.lifecycle.Advance(o, cmd.Target(), cmd.Actor(), current, existing, cmd.Now())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	if tr.OpenedRequest != nil {
		if err = uow.DeliveryRequestRepository().Add(ctx, tr.OpenedRequest); err != nil {
			return nil, err
		}
	}
	if tr.CompletedRequest != nil {
		if err = uow.DeliveryRequestRepository().Update(ctx, tr.CompletedRequest); err != nil {
			return nil, err
		}
	}
	if tr.Confirmation != nil {
		if err = uow.ConfirmationRepository().Add(ctx, tr.Confirmation); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
