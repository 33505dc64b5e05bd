package queries

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var ErrGetConfirmationStatusQueryIsNotConstructed = errors.New(
	"GetConfirmationStatusQuery must be created via NewGetConfirmationStatusQuery constructor",
)

// GetConfirmationStatusQuery reports how long the buyer has left to confirm receipt.
// The remaining time is measured at now.
type GetConfirmationStatusQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	now     time.Time
	guard   guard.ConstructorGuard
}

func NewGetConfirmationStatusQuery(orderID kernel.UUID, actor kernel.Actor, now time.Time) (GetConfirmationStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetConfirmationStatusQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if now.IsZero() {
		return GetConfirmationStatusQuery{}, errs.NewValueIsRequiredError("now")
	}
	return GetConfirmationStatusQuery{
		orderID: orderID,
		actor:   actor,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetConfirmationStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetConfirmationStatusQueryIsNotConstructed)
}

func (q GetConfirmationStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetConfirmationStatusQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetConfirmationStatusQuery) Now() time.Time {
	return q.now
}

type GetConfirmationStatusQueryResponse struct {
	ConfirmationID  kernel.UUID
	OrderID         kernel.UUID
	CreatedAt       time.Time
	Deadline        time.Time
	IsConfirmed     bool
	ConfirmedAt     *time.Time
	IsAutoConfirmed bool
	AutoConfirmedAt *time.Time
	// Remaining is zero once the deadline has passed.
	Remaining time.Duration
	IsExpired bool
}
