package delivery

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

// ErrRequestIsNotConstructed is returned when a Request was not created via NewRequest or RestoreRequest.
var ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")

// Request asks delivery partners to carry one order from its stall to the buyer.
//
// A request is independent from the Order it references: cancelling it leaves the
// order's status alone, and an order may collect several cancelled requests but only
// one active (Pending or Assigned) at a time.
type Request struct {
	id          kernel.UUID
	orderID     kernel.UUID
	partnerID   *kernel.UUID
	status      Status
	createdAt   time.Time
	assignedAt  *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	guard       guard.ConstructorGuard
}

// NewRequest creates a Pending request for orderID.
func NewRequest(id, orderID kernel.UUID, now time.Time) (*Request, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	return &Request{
		id:        id,
		orderID:   orderID,
		status:    Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreRequest reconstructs a Request from storage and checks that the timestamps
// agree with the status.
func RestoreRequest(
	id, orderID kernel.UUID,
	partnerID *kernel.UUID,
	status Status,
	createdAt time.Time,
	assignedAt, completedAt, cancelledAt *time.Time,
) (*Request, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if (status == Assigned || status == Completed) && (partnerID == nil || assignedAt == nil) {
		return nil, errs.NewValueIsRequiredError("assignedDeliveryPartnerId")
	}
	if status == Completed && completedAt == nil {
		return nil, errs.NewValueIsRequiredError("completedAt")
	}

	return &Request{
		id:          id,
		orderID:     orderID,
		partnerID:   partnerID,
		status:      status,
		createdAt:   createdAt,
		assignedAt:  assignedAt,
		completedAt: completedAt,
		cancelledAt: cancelledAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

func (r *Request) ID() kernel.UUID {
	return r.id
}

func (r *Request) OrderID() kernel.UUID {
	return r.orderID
}

// PartnerID returns the assigned delivery partner, or nil while Pending.
func (r *Request) PartnerID() *kernel.UUID {
	return r.partnerID
}

func (r *Request) Status() Status {
	return r.status
}

func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Request) AssignedAt() *time.Time {
	return r.assignedAt
}

func (r *Request) CompletedAt() *time.Time {
	return r.completedAt
}

func (r *Request) CancelledAt() *time.Time {
	return r.cancelledAt
}

func (r *Request) IsActive() bool {
	return r.status.IsActive()
}

// IsAssignedTo reports whether partnerID holds the request.
func (r *Request) IsAssignedTo(partnerID kernel.UUID) bool {
	return r.partnerID != nil && r.partnerID.IsEqual(partnerID)
}

// Assign hands a Pending request to partnerID.
func (r *Request) Assign(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if r.status != Pending {
		return errs.NewInvalidTransitionError("delivery request", r.status.String(), Assigned.String())
	}

	r.partnerID = &partnerID
	r.assignedAt = &now
	r.status = Assigned
	return nil
}

// Complete closes an Assigned request once the partner handed the order over.
func (r *Request) Complete(now time.Time) error {
	if r.status != Assigned {
		return errs.NewInvalidTransitionError("delivery request", r.status.String(), Completed.String())
	}

	r.completedAt = &now
	r.status = Completed
	return nil
}

// Cancel withdraws a Pending or Assigned request.
func (r *Request) Cancel(now time.Time) error {
	if !r.status.IsActive() {
		return errs.NewInvalidTransitionError("delivery request", r.status.String(), Cancelled.String())
	}

	r.cancelledAt = &now
	r.status = Cancelled
	return nil
}
