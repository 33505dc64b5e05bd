package commands

import (
	"context"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/pkg/errs"
)

// CheckoutCommandHandler converts selected cart lines into a Pending order.
//
// The order, its items and the removal of the consumed lines are one transaction:
// a failed checkout leaves the cart exactly as it was.
type CheckoutCommandHandler struct {
	uowFactory CheckoutUoWFactory
	aggregator services.CartAggregator
}

// NewCheckoutCommandHandler creates a handler for checkout. The aggregator prices and
// validates the selection; the handler only loads and persists.
func NewCheckoutCommandHandler(uowFactory CheckoutUoWFactory, aggregator services.CartAggregator) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory: uowFactory,
		aggregator: aggregator,
	}
}

// Handle returns the created order. Selection problems surface as validation or
// not found errors before anything is written.
func (h CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*order.Order, error) {
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
	lines, err := cartRepo.GetForUser(ctx, cmd.BuyerID(), cmd.LineIDs())
	if err != nil {
		return nil, err
	}
	if err = h.aggregator.ValidateSelection(cmd.BuyerID(), cmd.LineIDs(), lines); err != nil {
		return nil, err
	}

	buyer, err := uow.UserReader().Get(ctx, cmd.BuyerID())
	if err != nil {
		return nil, err
	}

	productIDs := make([]kernel.UUID, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID())
	}
	products, err := uow.ProductReader().GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	created, err := h.aggregator.BuildOrder(services.CheckoutDraft{
		OrderID:         cmd.OrderID(),
		Buyer:           buyer,
		LineIDs:         cmd.LineIDs(),
		Lines:           lines,
		Products:        products,
		Method:          cmd.FulfillmentMethod(),
		DeliveryAddress: cmd.DeliveryAddress(),
		Notes:           cmd.Notes(),
		Now:             cmd.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	removed, err := cartRepo.Remove(ctx, cmd.LineIDs()...)
	if err != nil {
		return nil, err
	}
	if removed != int64(len(cmd.LineIDs())) {
		// another checkout consumed some of the lines first
		return nil, errs.NewConflictError("cart", cmd.BuyerID().String())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
