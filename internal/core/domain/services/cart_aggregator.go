package services

import (
	"fmt"
	"strings"
	"time"

	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/directory"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"
)

// CheckoutDraft is everything CartAggregator needs, already loaded by the caller.
type CheckoutDraft struct {
	OrderID         kernel.UUID
	Buyer           directory.User
	LineIDs         []kernel.UUID
	Lines           []*cart.Line
	Products        map[kernel.UUID]directory.Product
	Method          order.FulfillmentMethod
	DeliveryAddress string
	Notes           string
	Now             time.Time
}

// CartAggregator validates a selection of cart lines and prices it into an order.
type CartAggregator struct {
	pricing PricingEngine
}

// NewCartAggregator creates an aggregator that prices orders with pricing.
func NewCartAggregator(pricing PricingEngine) CartAggregator {
	return CartAggregator{pricing: pricing}
}

// ValidateSelection checks the requested line IDs against the lines that were found
// for the buyer, before any product is looked up.
//
// An empty or repeated selection is a validation error. Any requested line that was
// not found in the buyer's cart is reported as not found, whether it does not exist
// or belongs to somebody else. Lines from more than one stall are a validation error.
func (a CartAggregator) ValidateSelection(buyerID kernel.UUID, lineIDs []kernel.UUID, lines []*cart.Line) error {
	if len(lineIDs) == 0 {
		return errs.NewValueIsRequiredError("cartLineIds")
	}

	requested := make(map[kernel.UUID]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		if _, dup := requested[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("cartLineIds", fmt.Errorf("%s is listed twice", id))
		}
		requested[id] = struct{}{}
	}

	found := make(map[kernel.UUID]*cart.Line, len(lines))
	for _, l := range lines {
		if l.BelongsTo(buyerID) {
			found[l.ID()] = l
		}
	}
	for _, id := range lineIDs {
		if _, ok := found[id]; !ok {
			return errs.NewObjectNotFoundError("cart line", id.String())
		}
	}

	stallID := found[lineIDs[0]].StallID()
	for _, id := range lineIDs[1:] {
		if !found[id].StallID().IsEqual(stallID) {
			return errs.NewValueIsInvalidErrorWithCause("cartLineIds", fmt.Errorf("lines span stalls %s and %s", stallID, found[id].StallID()))
		}
	}

	return nil
}

// BuildOrder creates the Pending order for a draft. Each line is priced from the
// product's current base price and frozen into an item; the buyer's premium flag
// picks the unit price.
func (a CartAggregator) BuildOrder(d CheckoutDraft) (*order.Order, error) {
	if err := a.ValidateSelection(d.Buyer.ID, d.LineIDs, d.Lines); err != nil {
		return nil, err
	}
	if err := d.Method.Validate(); err != nil {
		return nil, err
	}
	if d.Method == order.Delivery && strings.TrimSpace(d.DeliveryAddress) == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}

	byID := make(map[kernel.UUID]*cart.Line, len(d.Lines))
	for _, l := range d.Lines {
		byID[l.ID()] = l
	}

	stallID := byID[d.LineIDs[0]].StallID()
	items := make([]*order.Item, 0, len(d.LineIDs))
	for _, id := range d.LineIDs {
		line := byID[id]

		product, ok := d.Products[line.ProductID()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", line.ProductID().String())
		}
		if !product.StallID.IsEqual(line.StallID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("product %s is not sold by stall %s", product.ID, line.StallID()))
		}
		if !product.IsAvailable {
			return nil, errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("product %s is not available", product.ID))
		}

		quote, err := a.pricing.Quote(product.BasePrice, d.Buyer.IsPremium)
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(kernel.NewUUID(), product.ID, line.Quantity(), quote.PriceEach, quote.CommissionFee)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.NewOrder(
		d.OrderID,
		d.Buyer.ID,
		stallID,
		d.Method,
		d.DeliveryAddress,
		d.Notes,
		items,
		a.pricing.DeliveryFee(d.Method),
		d.Now,
	)
}
