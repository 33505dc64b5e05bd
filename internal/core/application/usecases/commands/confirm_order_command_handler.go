package commands

import (
	"context"
	"errors"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/pkg/errs"
)

// ConfirmOrderCommandHandler finalizes a confirmation for the buyer, accomplishes the
// order and accrues the stall's commission in one transaction.
//
// It races the confirmation sweep on the same row. Whoever loses the compare-and-set
// rolls back without effect; a buyer who loses sees the confirmation as already
// finalized.
type ConfirmOrderCommandHandler struct {
	uowFactory ConfirmationUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewConfirmOrderCommandHandler creates a handler for buyer confirmations.
func NewConfirmOrderCommandHandler(uowFactory ConfirmationUoWFactory, lifecycle services.OrderLifecycle) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle returns the finalized confirmation. A confirmation past its deadline is an
// errs.ExpiredError; one the sweep already finalized is an errs.InvalidTransitionError.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (*confirmation.Confirmation, error) {
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

	confirmationRepo := uow.ConfirmationRepository()
	c, err := confirmationRepo.FindByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewInvalidTransitionError("order", o.Status().String(), "Accomplished")
	}

	if err = h.lifecycle.Confirm(o, c, cmd.Actor(), cmd.Now()); err != nil {
		return nil, err
	}

	if err = confirmationRepo.Finalize(ctx, c); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.NewInvalidTransitionErrorWithCause("order confirmation", "Open", "Confirmed",
				confirmation.ErrAlreadyFinalized)
		}
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.StallLedger().AccruePendingFees(ctx, o.StallID(), o.TotalCommissionFee()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
