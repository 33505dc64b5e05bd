// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: repositories for the aggregates it owns, readers for the records
// it borrows, and the unit of work that binds them to one transaction.
package ports

import (
	"context"
	"time"

	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, partner, rejection reason and updatedAt. It succeeds only
	// if the stored version still equals aggregate.Version(), and bumps it; otherwise
	// it returns an errs.ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items, or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// CartRepository stores buyers' cart lines.
type CartRepository interface {
	Add(ctx context.Context, line *cart.Line) error
	Update(ctx context.Context, line *cart.Line) error
	Get(ctx context.Context, id kernel.UUID) (*cart.Line, error)

	// FindByProduct returns the buyer's line for productID, or nil when there is none.
	FindByProduct(ctx context.Context, userID, productID kernel.UUID) (*cart.Line, error)

	// GetForUser returns those of ids that are lines in userID's cart. Missing or
	// foreign ids are silently left out; callers compare the result with ids.
	GetForUser(ctx context.Context, userID kernel.UUID, ids []kernel.UUID) ([]*cart.Line, error)

	// Remove deletes lines by id and reports how many rows went away.
	Remove(ctx context.Context, ids ...kernel.UUID) (int64, error)
}

// DeliveryRequestRepository stores delivery requests.
type DeliveryRequestRepository interface {
	// Add inserts a request. A second active request for the same order is an
	// errs.ConflictError.
	Add(ctx context.Context, request *delivery.Request) error
	Update(ctx context.Context, request *delivery.Request) error
	Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error)

	// FindCurrentByOrder returns the order's most recent request that was not
	// cancelled, or nil when there is none.
	FindCurrentByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Request, error)
}

// ConfirmationRepository stores order confirmations.
type ConfirmationRepository interface {
	// Add inserts a confirmation. A second confirmation for the same order is an
	// errs.InvalidTransitionError.
	Add(ctx context.Context, c *confirmation.Confirmation) error

	// GetByOrder returns the order's confirmation or errs.ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error)

	// FindByOrder is GetByOrder returning nil instead of a not found error.
	FindByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error)

	// Finalize writes the confirmed or auto-confirmed flag of c with a compare-and-set:
	// the row is changed only while neither flag is set. A lost race is an
	// errs.ConflictError and leaves the row as the winner wrote it.
	Finalize(ctx context.Context, c *confirmation.Confirmation) error

	// ListExpired returns the ids of up to limit unfinalized confirmations whose
	// deadline is before now and whose order is still ToReceive, oldest deadline
	// first. Nothing is locked.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)

	// LockExpired locks the confirmation id for the current transaction if it is still
	// unfinalized, past its deadline at now and its order is still ToReceive. It
	// returns nil when the row no longer qualifies or another transaction holds it.
	LockExpired(ctx context.Context, id kernel.UUID, now time.Time) (*confirmation.Confirmation, error)
}
