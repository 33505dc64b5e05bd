package commands

import (
	"context"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"
)

// CancelDeliveryRequestCommandHandler withdraws a request and frees the order's
// partner slot so the vendor can re-dispatch. The order's status is left as it was.
type CancelDeliveryRequestCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCancelDeliveryRequestCommandHandler creates a handler for withdrawing delivery requests.
func NewCancelDeliveryRequestCommandHandler(uowFactory DeliveryUoWFactory) CancelDeliveryRequestCommandHandler {
	return CancelDeliveryRequestCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle cancels a Pending or Assigned request. The stall's vendor and the system may
// cancel either; the assigned partner may give up only their own request.
func (h CancelDeliveryRequestCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryRequestCommand) (*delivery.Request, error) {
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

	requestRepo := uow.DeliveryRequestRepository()
	req, err := requestRepo.Get(ctx, cmd.RequestID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, req.OrderID())
	if err != nil {
		return nil, err
	}

	if !mayCancel(cmd.Actor(), req, o) {
		return nil, errs.NewPermissionError(cmd.Actor().String(), "cancel delivery request "+req.ID().String())
	}

	hadPartner := o.DeliveryPartnerID() != nil
	if err = req.Cancel(cmd.Now()); err != nil {
		return nil, err
	}
	o.ReleaseDeliveryPartner(cmd.Now())

	if err = requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	if hadPartner {
		if err = orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return req, nil
}

func mayCancel(actor kernel.Actor, req *delivery.Request, o *order.Order) bool {
	switch actor.Role() {
	case kernel.RoleSystem:
		return true
	case kernel.RoleVendor:
		return actor.RunsStall(o.StallID())
	case kernel.RoleDeliveryPartner:
		return req.IsAssignedTo(actor.ID())
	default:
		return false
	}
}
