package commands

import (
	"context"
	"fmt"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/pkg/errs"
)

// AssignDeliveryPartnerCommandHandler assigns a partner to a request and records the
// partner on the order in the same transaction.
type AssignDeliveryPartnerCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewAssignDeliveryPartnerCommandHandler creates a handler for partner assignment.
func NewAssignDeliveryPartnerCommandHandler(uowFactory DeliveryUoWFactory) AssignDeliveryPartnerCommandHandler {
	return AssignDeliveryPartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle fails with errs.ObjectNotFoundError for an unknown partner and with
// errs.InvalidTransitionError for a request that is no longer Pending.
func (h AssignDeliveryPartnerCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryPartnerCommand) (*delivery.Request, error) {
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

	partner, err := uow.PartnerReader().Get(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}
	if !partner.IsActive {
		return nil, errs.NewValueIsInvalidErrorWithCause("partnerId", fmt.Errorf("partner %s is not active", partner.ID))
	}

	if err = req.Assign(partner.ID, cmd.Now()); err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, req.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.AssignDeliveryPartner(partner.ID, cmd.Now()); err != nil {
		return nil, err
	}

	if err = requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return req, nil
}
