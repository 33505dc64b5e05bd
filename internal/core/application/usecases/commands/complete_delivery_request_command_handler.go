package commands

import (
	"context"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
)

// CompleteDeliveryRequestCommandHandler closes an assigned delivery request once
// the partner has handed the order over. Only the assigned partner and the system
// may complete it.
//
// Example:
//
//	handler := NewCompleteDeliveryRequestCommandHandler(uowFactory)
//	cmd, err := NewCompleteDeliveryRequestCommand(requestID, partner, time.Now())
//	if err != nil {
//	    return err
//	}
//	req, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    log.Println("Request is not assigned")
//	case errors.Is(err, errs.ErrPermissionDenied):
//	    log.Println("Someone else holds this delivery")
//	case err != nil:
//	    log.Printf("Completion failed: %v", err)
//	default:
//	    log.Printf("Request %s completed", req.ID())
//	}
type CompleteDeliveryRequestCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCompleteDeliveryRequestCommandHandler creates a handler for completing delivery
// requests. The unit of work must expose the delivery request and order repositories.
func NewCompleteDeliveryRequestCommandHandler(uowFactory DeliveryUoWFactory) CompleteDeliveryRequestCommandHandler {
	return CompleteDeliveryRequestCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle moves the request from Assigned to Completed and returns it.
func (h CompleteDeliveryRequestCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryRequestCommand) (*delivery.Request, error) {
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

	actor := cmd.Actor()
	if actor.Role() != kernel.RoleSystem && !(actor.Role() == kernel.RoleDeliveryPartner && req.IsAssignedTo(actor.ID())) {
		return nil, errs.NewPermissionError(actor.String(), "complete delivery request "+req.ID().String())
	}

	if err = req.Complete(cmd.Now()); err != nil {
		return nil, err
	}
	if err = requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return req, nil
}
