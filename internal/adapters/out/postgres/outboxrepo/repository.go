// Package outboxrepo stores domain events next to the rows that produced them
// and hands them to the relay in creation order.
package outboxrepo

import (
	"context"
	"fmt"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null"`
	EventType   string    `gorm:"not null"`
	Payload     []byte    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	PublishedAt *time.Time
}

func (EventDTO) TableName() string {
	return "outbox_events"
}

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add stores messages in the caller's transaction.
func (r *GormOutboxRepository) Add(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, EventDTO{
			ID:          m.ID.Bytes(),
			AggregateID: m.AggregateID.Bytes(),
			EventType:   m.EventType,
			Payload:     m.Payload,
			CreatedAt:   m.CreatedAt,
		})
	}
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return fmt.Errorf("insert outbox events: %w", err)
	}
	return nil
}

func (r *GormOutboxRepository) LockUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("lock unpublished outbox events: %w", err)
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		aggregateID, idErr := kernel.UUIDFromBytes(dto.AggregateID[:])
		if idErr != nil {
			return nil, idErr
		}
		messages = append(messages, ports.OutboxMessage{
			ID:          id,
			AggregateID: aggregateID,
			EventType:   dto.EventType,
			Payload:     dto.Payload,
			CreatedAt:   dto.CreatedAt,
		})
	}
	return messages, nil
}

// MarkPublished stamps the given messages as delivered at at.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	err := r.db.WithContext(ctx).
		Model(&EventDTO{}).
		Where("id IN ? AND published_at IS NULL", raw).
		Update("published_at", at).Error
	if err != nil {
		return fmt.Errorf("mark outbox events published: %w", err)
	}
	return nil
}
