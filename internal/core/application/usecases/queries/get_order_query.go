// Package queries holds the read side of the order lifecycle. Handlers read
// straight from Postgres with raw SQL and return flat responses; they never load
// aggregates or write.
package queries

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order with its items on behalf of actor.
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

// GetOrderQueryResponse is the order detail view.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	UserID             kernel.UUID
	StallID            kernel.UUID
	Status             string
	FulfillmentMethod  string
	DeliveryAddress    string
	Notes              string
	DeliveryPartnerID  *kernel.UUID
	DeliveryFee        kernel.Money
	TotalPrice         kernel.Money
	TotalCommissionFee kernel.Money
	RejectionReason    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []OrderItemView
}

// OrderItemView is one purchased line with the price snapshot taken at checkout.
type OrderItemView struct {
	ID            kernel.UUID
	ProductID     kernel.UUID
	ProductName   string
	Quantity      int
	PriceEach     kernel.Money
	CommissionFee kernel.Money
}
