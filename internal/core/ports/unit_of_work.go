package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Repositories obtained after
// Begin share its transaction; events recorded by saved orders are written to the
// outbox by Commit, inside the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	CartRepository() CartRepository
	DeliveryRequestRepository() DeliveryRequestRepository
	ConfirmationRepository() ConfirmationRepository
	OutboxRepository() OutboxRepository

	ProductReader() ProductReader
	UserReader() UserReader
	PartnerReader() PartnerReader
	StallLedger() StallLedger
}
