package queries

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var ErrGetOpenStallOrdersQueryIsNotConstructed = errors.New(
	"GetOpenStallOrdersQuery must be created via NewGetOpenStallOrdersQuery constructor",
)

// GetOpenStallOrdersQuery is a vendor's work queue: every order of the stall that
// is neither Accomplished nor Rejected, oldest first.
type GetOpenStallOrdersQuery struct {
	stallID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOpenStallOrdersQuery(stallID kernel.UUID, actor kernel.Actor) (GetOpenStallOrdersQuery, error) {
	if err := stallID.Validate(); err != nil {
		return GetOpenStallOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("stallID", err)
	}
	return GetOpenStallOrdersQuery{stallID: stallID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOpenStallOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenStallOrdersQueryIsNotConstructed)
}

func (q GetOpenStallOrdersQuery) StallID() kernel.UUID {
	return q.stallID
}

func (q GetOpenStallOrdersQuery) Actor() kernel.Actor {
	return q.actor
}

// GetOpenStallOrdersQueryResponse summarizes one queued order.
type GetOpenStallOrdersQueryResponse struct {
	ID                kernel.UUID
	UserID            kernel.UUID
	Status            string
	FulfillmentMethod string
	TotalPrice        kernel.Money
	ItemCount         int
	CreatedAt         time.Time
}
