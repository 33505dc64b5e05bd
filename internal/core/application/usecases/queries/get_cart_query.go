package queries

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var ErrGetCartQueryIsNotConstructed = errors.New(
	"GetCartQuery must be created via NewGetCartQuery constructor",
)

// GetCartQuery lists a buyer's cart lines at current catalog prices.
type GetCartQuery struct {
	userID kernel.UUID
	guard  guard.ConstructorGuard
}

func NewGetCartQuery(userID kernel.UUID) (GetCartQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetCartQuery{}, errs.NewValueIsRequiredErrorWithCause("userID", err)
	}
	return GetCartQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

func (q GetCartQuery) UserID() kernel.UUID {
	return q.userID
}

// GetCartQueryResponse holds the lines in the order they were added. BaseSubtotal
// sums base prices; checkout prices each stall's lines with markup or discount
// and the delivery fee, so the final total can differ.
type GetCartQueryResponse struct {
	Lines        []CartLineView
	BaseSubtotal kernel.Money
}

type CartLineView struct {
	ID          kernel.UUID
	ProductID   kernel.UUID
	ProductName string
	StallID     kernel.UUID
	Quantity    int
	BasePrice   kernel.Money
	LineTotal   kernel.Money
	IsAvailable bool
	AddedAt     time.Time
}
