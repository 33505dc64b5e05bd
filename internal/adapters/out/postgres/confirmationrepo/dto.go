// Package confirmationrepo persists order confirmations and implements the
// compare-and-set that settles the race between a buyer's confirmation and the sweep.
package confirmationrepo

import (
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type ConfirmationDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt            time.Time `gorm:"not null"`
	ConfirmationDeadline time.Time `gorm:"not null"`
	IsConfirmed          bool      `gorm:"not null;default:false"`
	ConfirmedAt          *time.Time
	IsAutoConfirmed      bool `gorm:"not null;default:false"`
	AutoConfirmedAt      *time.Time
}

func (ConfirmationDTO) TableName() string {
	return "order_confirmations"
}

func fromDomain(c *confirmation.Confirmation) ConfirmationDTO {
	return ConfirmationDTO{
		ID:                   c.ID().Bytes(),
		OrderID:              c.OrderID().Bytes(),
		CreatedAt:            c.CreatedAt(),
		ConfirmationDeadline: c.Deadline(),
		IsConfirmed:          c.IsConfirmed(),
		ConfirmedAt:          c.ConfirmedAt(),
		IsAutoConfirmed:      c.IsAutoConfirmed(),
		AutoConfirmedAt:      c.AutoConfirmedAt(),
	}
}

func toDomain(dto ConfirmationDTO) (*confirmation.Confirmation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return confirmation.Restore(
		id, orderID,
		dto.CreatedAt, dto.ConfirmationDeadline,
		dto.IsConfirmed, dto.ConfirmedAt,
		dto.IsAutoConfirmed, dto.AutoConfirmedAt,
	)
}
