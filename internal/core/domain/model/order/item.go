package order

import (
	"errors"
	"fmt"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a frozen snapshot of one checked-out cart line. Its prices never change
// after checkout, whatever happens to the product in the catalog.
type Item struct {
	id            kernel.UUID
	productID     kernel.UUID
	quantity      int
	priceEach     kernel.Money
	commissionFee kernel.Money
	guard         guard.ConstructorGuard
}

// NewItem builds an item snapshot. priceEach is the unit price the buyer pays and
// commissionFee is the platform's per-unit take.
func NewItem(id, productID kernel.UUID, quantity int, priceEach, commissionFee kernel.Money) (*Item, error) {
	item := &Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		item.setQuantity(quantity),
		item.setPriceEach(priceEach),
	); err != nil {
		return nil, err
	}

	item.id = id
	item.productID = productID
	item.commissionFee = commissionFee
	return item, nil
}

// RestoreItem reconstructs an item loaded from storage.
func RestoreItem(id, productID kernel.UUID, quantity int, priceEach, commissionFee kernel.Money) (*Item, error) {
	return NewItem(id, productID, quantity, priceEach, commissionFee)
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) PriceEach() kernel.Money {
	return i.priceEach
}

func (i *Item) CommissionFee() kernel.Money {
	return i.commissionFee
}

// LineTotal is priceEach × quantity.
func (i *Item) LineTotal() kernel.Money {
	return i.priceEach.Times(i.quantity)
}

// LineCommission is commissionFee × quantity.
func (i *Item) LineCommission() kernel.Money {
	return i.commissionFee.Times(i.quantity)
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPriceEach(price kernel.Money) error {
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("priceEach", fmt.Errorf("%s is not greater than 0", price))
	}
	i.priceEach = price
	return nil
}
