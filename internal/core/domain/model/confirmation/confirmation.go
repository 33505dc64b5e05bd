// Package confirmation models the buyer's receipt confirmation window for an order
// that was handed over. The window is persisted as a deadline, so nothing in memory
// needs to survive a restart: whoever looks next compares the deadline with the time.
package confirmation

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

// DefaultWindow is how long a buyer has to confirm receipt before the system does it.
const DefaultWindow = 5 * time.Minute

var (
	// ErrConfirmationIsNotConstructed is returned when a Confirmation was not created via New or Restore.
	ErrConfirmationIsNotConstructed = errors.New("Confirmation must be created via New constructor")

	// ErrAlreadyFinalized is the cause attached when either flag is already set.
	ErrAlreadyFinalized = errors.New("confirmation is already finalized")

	// ErrWindowStillOpen is the cause attached when auto-confirmation is attempted early.
	ErrWindowStillOpen = errors.New("confirmation window is still open")
)

// Confirmation tracks one order's receipt confirmation. Exactly one of the two
// finalization paths may ever succeed: Confirm by the buyer before the deadline or
// AutoConfirm by the sweep after it.
type Confirmation struct {
	id              kernel.UUID
	orderID         kernel.UUID
	createdAt       time.Time
	deadline        time.Time
	isConfirmed     bool
	confirmedAt     *time.Time
	isAutoConfirmed bool
	autoConfirmedAt *time.Time
	guard           guard.ConstructorGuard
}

// New opens a confirmation window of length window starting at now.
func New(id, orderID kernel.UUID, now time.Time, window time.Duration) (*Confirmation, error) {
	if window <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("window", window, "1ns", "+inf")
	}
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &Confirmation{
		id:        id,
		orderID:   orderID,
		createdAt: now,
		deadline:  now.Add(window),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Restore reconstructs a Confirmation from storage. A row with both flags set is corrupt.
func Restore(
	id, orderID kernel.UUID,
	createdAt, deadline time.Time,
	isConfirmed bool, confirmedAt *time.Time,
	isAutoConfirmed bool, autoConfirmedAt *time.Time,
) (*Confirmation, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if isConfirmed && isAutoConfirmed {
		return nil, errs.NewValueIsInvalidErrorWithCause("confirmation", errors.New("both confirmed and auto-confirmed"))
	}
	if (isConfirmed && confirmedAt == nil) || (isAutoConfirmed && autoConfirmedAt == nil) {
		return nil, errs.NewValueIsRequiredError("confirmedAt")
	}

	return &Confirmation{
		id:              id,
		orderID:         orderID,
		createdAt:       createdAt,
		deadline:        deadline,
		isConfirmed:     isConfirmed,
		confirmedAt:     confirmedAt,
		isAutoConfirmed: isAutoConfirmed,
		autoConfirmedAt: autoConfirmedAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c *Confirmation) Validate() error {
	if c == nil {
		return ErrConfirmationIsNotConstructed
	}
	return c.guard.Validate(ErrConfirmationIsNotConstructed)
}

func (c *Confirmation) ID() kernel.UUID {
	return c.id
}

func (c *Confirmation) OrderID() kernel.UUID {
	return c.orderID
}

func (c *Confirmation) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Confirmation) Deadline() time.Time {
	return c.deadline
}

func (c *Confirmation) IsConfirmed() bool {
	return c.isConfirmed
}

func (c *Confirmation) ConfirmedAt() *time.Time {
	return c.confirmedAt
}

func (c *Confirmation) IsAutoConfirmed() bool {
	return c.isAutoConfirmed
}

func (c *Confirmation) AutoConfirmedAt() *time.Time {
	return c.autoConfirmedAt
}

// IsFinalized reports whether either path already won.
func (c *Confirmation) IsFinalized() bool {
	return c.isConfirmed || c.isAutoConfirmed
}

// IsExpired reports an unfinalized confirmation whose deadline is behind now.
func (c *Confirmation) IsExpired(now time.Time) bool {
	return now.After(c.deadline) && !c.IsFinalized()
}

// Remaining is max(0, deadline - now).
func (c *Confirmation) Remaining(now time.Time) time.Duration {
	if left := c.deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Confirm records the buyer's confirmation. now equal to the deadline is still in time.
func (c *Confirmation) Confirm(now time.Time) error {
	if c.IsFinalized() {
		return errs.NewInvalidTransitionErrorWithCause("order confirmation", c.state(), "Confirmed", ErrAlreadyFinalized)
	}
	if now.After(c.deadline) {
		return errs.NewExpiredError("order confirmation "+c.id.String(), c.deadline)
	}

	c.isConfirmed = true
	c.confirmedAt = &now
	return nil
}

// AutoConfirm finalizes on the buyer's behalf once the deadline has passed.
func (c *Confirmation) AutoConfirm(now time.Time) error {
	if c.IsFinalized() {
		return errs.NewInvalidTransitionErrorWithCause("order confirmation", c.state(), "AutoConfirmed", ErrAlreadyFinalized)
	}
	if !now.After(c.deadline) {
		return errs.NewInvalidTransitionErrorWithCause("order confirmation", c.state(), "AutoConfirmed", ErrWindowStillOpen)
	}

	c.isAutoConfirmed = true
	c.autoConfirmedAt = &now
	return nil
}

func (c *Confirmation) state() string {
	switch {
	case c.isConfirmed:
		return "Confirmed"
	case c.isAutoConfirmed:
		return "AutoConfirmed"
	default:
		return "Open"
	}
}
