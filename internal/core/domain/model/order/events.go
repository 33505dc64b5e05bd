package order

import (
	"time"

	"iskxpress/internal/core/domain/model/kernel"
)

const (
	EventTypeCreated       = "order.created"
	EventTypeStatusChanged = "order.status_changed"
)

// Event is a fact recorded by the Order aggregate. Events are drained by the
// unit of work and written to the outbox in the same transaction as the order row.
type Event interface {
	EventType() string
	AggregateID() kernel.UUID
	When() time.Time
}

// CreatedEvent is recorded once, when checkout creates the order.
type CreatedEvent struct {
	OrderID           string    `json:"orderId"`
	UserID            string    `json:"userId"`
	StallID           string    `json:"stallId"`
	FulfillmentMethod string    `json:"fulfillmentMethod"`
	TotalPrice        string    `json:"totalPrice"`
	ItemCount         int       `json:"itemCount"`
	OccurredAt        time.Time `json:"occurredAt"`

	id kernel.UUID
}

func (e CreatedEvent) EventType() string {
	return EventTypeCreated
}

func (e CreatedEvent) AggregateID() kernel.UUID {
	return e.id
}

func (e CreatedEvent) When() time.Time {
	return e.OccurredAt
}

// StatusChangedEvent is recorded on every status transition.
type StatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	StallID    string    `json:"stallId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`

	id kernel.UUID
}

func (e StatusChangedEvent) EventType() string {
	return EventTypeStatusChanged
}

func (e StatusChangedEvent) AggregateID() kernel.UUID {
	return e.id
}

func (e StatusChangedEvent) When() time.Time {
	return e.OccurredAt
}
