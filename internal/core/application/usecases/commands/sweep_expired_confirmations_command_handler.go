package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/pkg/errs"
)

// SweepExpiredConfirmationsCommandHandler auto-confirms every confirmation whose window
// closed without the buyer acting.
//
// Candidates are listed without locks and then resolved one transaction each, so one
// bad order cannot hold back the rest of the batch. Each transaction re-checks its row
// under FOR UPDATE SKIP LOCKED: rows a concurrent sweeper or buyer holds are skipped
// and picked up by a later pass if still open.
type SweepExpiredConfirmationsCommandHandler struct {
	uowFactory ConfirmationUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewSweepExpiredConfirmationsCommandHandler creates the sweep. It shares lifecycle
// with ConfirmOrderCommandHandler so both paths accomplish orders the same way.
func NewSweepExpiredConfirmationsCommandHandler(
	uowFactory ConfirmationUoWFactory,
	lifecycle services.OrderLifecycle,
) SweepExpiredConfirmationsCommandHandler {
	return SweepExpiredConfirmationsCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle returns the confirmations this pass finalized. Lost races are skipped
// silently. Any other failure, including a confirmation the order's state no longer
// allows, is joined into the returned error alongside the confirmations that did
// succeed.
func (h SweepExpiredConfirmationsCommandHandler) Handle(
	ctx context.Context,
	cmd SweepExpiredConfirmationsCommand,
) ([]*confirmation.Confirmation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.listExpired(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return nil, err
	}

	var (
		swept   []*confirmation.Confirmation
		errList []error
	)
	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}

		c, err := h.autoConfirm(ctx, id, cmd.Now())
		switch {
		case err == nil && c != nil:
			swept = append(swept, c)
		case errors.Is(err, errs.ErrConflict):
		case err != nil:
			errList = append(errList, fmt.Errorf("auto-confirm %s: %w", id, err))
		}
	}

	return swept, errors.Join(errList...)
}

func (h SweepExpiredConfirmationsCommandHandler) listExpired(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ids, err := uow.ConfirmationRepository().ListExpired(ctx, now, limit)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}

// autoConfirm returns nil, nil when the row no longer needs sweeping.
func (h SweepExpiredConfirmationsCommandHandler) autoConfirm(
	ctx context.Context,
	id kernel.UUID,
	now time.Time,
) (*confirmation.Confirmation, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	confirmationRepo := uow.ConfirmationRepository()
	c, err := confirmationRepo.LockExpired(ctx, id, now)
	if err != nil || c == nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, c.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.AutoConfirm(o, c, now); err != nil {
		return nil, err
	}

	if err = confirmationRepo.Finalize(ctx, c); err != nil {
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
