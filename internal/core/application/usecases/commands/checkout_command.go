package commands

import (
	"errors"
	"strings"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutCommand asks to turn some of a buyer's cart lines into one order.
//
// Example:
//
//	cmd, err := NewCheckoutCommand(kernel.NewUUID(), buyerID, lineIDs, order.Delivery, "Dorm 4", "", time.Now())
//	if err != nil {
//	    return err
//	}
//	created, err := handler.Handle(ctx, cmd)
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	buyerID         kernel.UUID
	lineIDs         []kernel.UUID
	method          order.FulfillmentMethod
	deliveryAddress string
	notes           string
	now             time.Time

	guard guard.ConstructorGuard
}

func NewCheckoutCommand(
	orderID, buyerID kernel.UUID,
	lineIDs []kernel.UUID,
	method order.FulfillmentMethod,
	deliveryAddress, notes string,
	now time.Time,
) (CheckoutCommand, error) {
	cmd := CheckoutCommand{
		notes: notes,
		now:   now,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, buyerID),
		cmd.setLineIDs(lineIDs),
		cmd.setFulfillment(method, deliveryAddress),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return cmd, nil
}

func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

func (c CheckoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CheckoutCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// LineIDs returns the selected cart lines in request order.
func (c CheckoutCommand) LineIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.lineIDs))
	copy(ids, c.lineIDs)
	return ids
}

func (c CheckoutCommand) FulfillmentMethod() order.FulfillmentMethod {
	return c.method
}

func (c CheckoutCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CheckoutCommand) Notes() string {
	return c.notes
}

func (c CheckoutCommand) Now() time.Time {
	return c.now
}

func (c *CheckoutCommand) setIDs(orderID, buyerID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), buyerID.Validate()); err != nil {
		return err
	}
	c.orderID = orderID
	c.buyerID = buyerID
	return nil
}

func (c *CheckoutCommand) setLineIDs(lineIDs []kernel.UUID) error {
	if len(lineIDs) == 0 {
		return errs.NewValueIsRequiredError("cartLineIds")
	}
	for _, id := range lineIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.lineIDs = lineIDs
	return nil
}

func (c *CheckoutCommand) setFulfillment(method order.FulfillmentMethod, deliveryAddress string) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if method == order.Delivery && strings.TrimSpace(deliveryAddress) == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	c.method = method
	c.deliveryAddress = deliveryAddress
	return nil
}
