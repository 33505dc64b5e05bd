package commands

import (
	"context"
	"fmt"

	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/pkg/errs"
)

// AddCartLineCommandHandler puts a product into a buyer's cart. Adding a product the
// cart already holds raises that line's quantity instead of creating a second line.
type AddCartLineCommandHandler struct {
	uowFactory CartUoWFactory
}

// NewAddCartLineCommandHandler creates a handler for adding cart lines.
func NewAddCartLineCommandHandler(uowFactory CartUoWFactory) AddCartLineCommandHandler {
	return AddCartLineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle refuses products that are not currently available.
func (h AddCartLineCommandHandler) Handle(ctx context.Context, cmd AddCartLineCommand) (*cart.Line, error) {
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

	product, err := uow.ProductReader().Get(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("product %s is not available", product.ID))
	}

	cartRepo := uow.CartRepository()
	line, err := cartRepo.FindByProduct(ctx, cmd.UserID(), cmd.ProductID())
	if err != nil {
		return nil, err
	}

	if line != nil {
		if err = line.Increase(cmd.Quantity(), cmd.Now()); err != nil {
			return nil, err
		}
		err = cartRepo.Update(ctx, line)
	} else {
		line, err = cart.NewLine(cmd.LineID(), cmd.UserID(), product.ID, product.StallID, cmd.Quantity(), cmd.Now())
		if err != nil {
			return nil, err
		}
		err = cartRepo.Add(ctx, line)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return line, nil
}

// UpdateCartLineCommandHandler replaces the quantity of one of the buyer's lines.
type UpdateCartLineCommandHandler struct {
	uowFactory CartUoWFactory
}

// NewUpdateCartLineCommandHandler creates a handler for quantity changes.
func NewUpdateCartLineCommandHandler(uowFactory CartUoWFactory) UpdateCartLineCommandHandler {
	return UpdateCartLineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle reports another buyer's line as not found.
func (h UpdateCartLineCommandHandler) Handle(ctx context.Context, cmd UpdateCartLineCommand) (*cart.Line, error) {
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

	cartRepo := uow.CartRepository()
	line, err := cartRepo.Get(ctx, cmd.LineID())
	if err != nil {
		return nil, err
	}
	if !line.BelongsTo(cmd.UserID()) {
		return nil, errs.NewObjectNotFoundError("cartLineId", cmd.LineID())
	}

	if err = line.ChangeQuantity(cmd.Quantity(), cmd.Now()); err != nil {
		return nil, err
	}
	if err = cartRepo.Update(ctx, line); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return line, nil
}

// RemoveCartLineCommandHandler deletes one of the buyer's lines.
type RemoveCartLineCommandHandler struct {
	uowFactory CartUoWFactory
}

// NewRemoveCartLineCommandHandler creates a handler for removing cart lines.
func NewRemoveCartLineCommandHandler(uowFactory CartUoWFactory) RemoveCartLineCommandHandler {
	return RemoveCartLineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle reports a line owned by someone else as not found.
func (h RemoveCartLineCommandHandler) Handle(ctx context.Context, cmd RemoveCartLineCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	line, err := cartRepo.Get(ctx, cmd.LineID())
	if err != nil {
		return err
	}
	if !line.BelongsTo(cmd.UserID()) {
		return errs.NewObjectNotFoundError("cartLineId", cmd.LineID())
	}

	if _, err = cartRepo.Remove(ctx, line.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
