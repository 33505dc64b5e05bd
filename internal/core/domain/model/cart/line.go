// Package cart holds the buyer's cart lines: products picked from one or more stalls,
// waiting to be checked out.
package cart

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line was not created via NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one product in a buyer's cart. The stall is copied from the product when the
// line is added so checkout can refuse mixed-stall selections without a catalog lookup.
type Line struct {
	id        kernel.UUID
	userID    kernel.UUID
	productID kernel.UUID
	stallID   kernel.UUID
	quantity  int
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewLine(id, userID, productID, stallID kernel.UUID, quantity int, now time.Time) (*Line, error) {
	return RestoreLine(id, userID, productID, stallID, quantity, now, now)
}

// RestoreLine reconstructs a Line from storage.
func RestoreLine(id, userID, productID, stallID kernel.UUID, quantity int, createdAt, updatedAt time.Time) (*Line, error) {
	l := &Line{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		productID.Validate(),
		stallID.Validate(),
		l.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	l.id = id
	l.userID = userID
	l.productID = productID
	l.stallID = stallID
	return l, nil
}

func (l *Line) Validate() error {
	if l == nil {
		return ErrLineIsNotConstructed
	}
	return l.guard.Validate(ErrLineIsNotConstructed)
}

func (l *Line) ID() kernel.UUID {
	return l.id
}

func (l *Line) UserID() kernel.UUID {
	return l.userID
}

func (l *Line) ProductID() kernel.UUID {
	return l.productID
}

func (l *Line) StallID() kernel.UUID {
	return l.stallID
}

func (l *Line) Quantity() int {
	return l.quantity
}

func (l *Line) CreatedAt() time.Time {
	return l.createdAt
}

func (l *Line) UpdatedAt() time.Time {
	return l.updatedAt
}

// BelongsTo reports whether the line is in userID's cart.
func (l *Line) BelongsTo(userID kernel.UUID) bool {
	return l.userID.IsEqual(userID)
}

// ChangeQuantity replaces the quantity; it must stay at least 1.
func (l *Line) ChangeQuantity(quantity int, now time.Time) error {
	if err := l.setQuantity(quantity); err != nil {
		return err
	}
	l.updatedAt = now
	return nil
}

// Increase adds quantity to the line, used when the same product is added twice.
func (l *Line) Increase(quantity int, now time.Time) error {
	if quantity < 1 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	return l.ChangeQuantity(l.quantity+quantity, now)
}

func (l *Line) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	l.quantity = quantity
	return nil
}
