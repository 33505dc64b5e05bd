package ports

import (
	"context"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
)

// OutboxMessage is an event waiting to be published.
type OutboxMessage struct {
	ID          kernel.UUID
	AggregateID kernel.UUID
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// OutboxRepository hands unpublished events to the relay.
type OutboxRepository interface {
	// LockUnpublished returns up to limit unpublished messages in creation order,
	// skipping rows another relay already holds.
	LockUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher delivers outbox messages to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, messages ...OutboxMessage) error
}

// Lease is a short-lived lock shared between service instances.
type Lease interface {
	// TryAcquire takes the named lease for ttl and reports whether this instance holds it.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}
