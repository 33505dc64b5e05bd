package commands

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var (
	ErrAddCartLineCommandIsNotConstructed = errors.New(
		"AddCartLineCommand must be created via NewAddCartLineCommand constructor",
	)
	ErrUpdateCartLineCommandIsNotConstructed = errors.New(
		"UpdateCartLineCommand must be created via NewUpdateCartLineCommand constructor",
	)
	ErrRemoveCartLineCommandIsNotConstructed = errors.New(
		"RemoveCartLineCommand must be created via NewRemoveCartLineCommand constructor",
	)
)

// AddCartLineCommand puts quantity units of a product into the buyer's cart. A product
// already in the cart has its line increased instead of getting a second one.
type AddCartLineCommand struct { //nolint:recvcheck //using for validation
	lineID    kernel.UUID
	userID    kernel.UUID
	productID kernel.UUID
	quantity  int
	now       time.Time

	guard guard.ConstructorGuard
}

func NewAddCartLineCommand(lineID, userID, productID kernel.UUID, quantity int, now time.Time) (AddCartLineCommand, error) {
	if err := errors.Join(lineID.Validate(), userID.Validate(), productID.Validate(), validateQuantity(quantity)); err != nil {
		return AddCartLineCommand{}, err
	}

	return AddCartLineCommand{
		lineID:    lineID,
		userID:    userID,
		productID: productID,
		quantity:  quantity,
		now:       now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddCartLineCommand) Validate() error {
	return c.guard.Validate(ErrAddCartLineCommandIsNotConstructed)
}

func (c AddCartLineCommand) LineID() kernel.UUID {
	return c.lineID
}

func (c AddCartLineCommand) UserID() kernel.UUID {
	return c.userID
}

func (c AddCartLineCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c AddCartLineCommand) Quantity() int {
	return c.quantity
}

func (c AddCartLineCommand) Now() time.Time {
	return c.now
}

// UpdateCartLineCommand sets a line's quantity.
type UpdateCartLineCommand struct { //nolint:recvcheck //using for validation
	lineID   kernel.UUID
	userID   kernel.UUID
	quantity int
	now      time.Time

	guard guard.ConstructorGuard
}

func NewUpdateCartLineCommand(lineID, userID kernel.UUID, quantity int, now time.Time) (UpdateCartLineCommand, error) {
	if err := errors.Join(lineID.Validate(), userID.Validate(), validateQuantity(quantity)); err != nil {
		return UpdateCartLineCommand{}, err
	}

	return UpdateCartLineCommand{
		lineID:   lineID,
		userID:   userID,
		quantity: quantity,
		now:      now,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCartLineCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCartLineCommandIsNotConstructed)
}

func (c UpdateCartLineCommand) LineID() kernel.UUID {
	return c.lineID
}

func (c UpdateCartLineCommand) UserID() kernel.UUID {
	return c.userID
}

func (c UpdateCartLineCommand) Quantity() int {
	return c.quantity
}

func (c UpdateCartLineCommand) Now() time.Time {
	return c.now
}

type RemoveCartLineCommand struct { //nolint:recvcheck //using for validation
	lineID kernel.UUID
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveCartLineCommand(lineID, userID kernel.UUID) (RemoveCartLineCommand, error) {
	if err := errors.Join(lineID.Validate(), userID.Validate()); err != nil {
		return RemoveCartLineCommand{}, err
	}

	return RemoveCartLineCommand{
		lineID: lineID,
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveCartLineCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCartLineCommandIsNotConstructed)
}

func (c RemoveCartLineCommand) LineID() kernel.UUID {
	return c.lineID
}

func (c RemoveCartLineCommand) UserID() kernel.UUID {
	return c.userID
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	return nil
}
