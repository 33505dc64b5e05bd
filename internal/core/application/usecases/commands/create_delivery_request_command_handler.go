package commands

import (
	"context"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/pkg/errs"
)

// CreateDeliveryRequestCommandHandler re-dispatches a delivery order. The request that
// accepting an order opens is created by UpdateOrderStatusCommandHandler instead.
type CreateDeliveryRequestCommandHandler struct {
	uowFactory DeliveryUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewCreateDeliveryRequestCommandHandler creates a handler for explicit re-dispatch.
func NewCreateDeliveryRequestCommandHandler(uowFactory DeliveryUoWFactory, lifecycle services.OrderLifecycle) CreateDeliveryRequestCommandHandler {
	return CreateDeliveryRequestCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle opens a new Pending request. An order that still has an active request is
// an errs.ConflictError.
func (h CreateDeliveryRequestCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryRequestCommand) (*delivery.Request, error) {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !cmd.Actor().RunsStall(o.StallID()) {
		return nil, errs.NewPermissionError(cmd.Actor().String(), "dispatch order "+o.ID().String())
	}

	requestRepo := uow.DeliveryRequestRepository()
	current, err := requestRepo.FindCurrentByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	req, err := h.lifecycle.OpenRequest(o, current, cmd.Now())
	if err != nil {
		return nil, err
	}
	if err = requestRepo.Add(ctx, req); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return req, nil
}
