// Package deliveryrepo persists delivery requests.
package deliveryrepo

import (
	"time"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DeliveryRequestDTO struct {
	ID                        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID                   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedDeliveryPartnerID *uuid.UUID `gorm:"type:uuid"`
	Status                    string     `gorm:"type:text;not null"`
	CreatedAt                 time.Time  `gorm:"not null"`
	AssignedAt                *time.Time
	CompletedAt               *time.Time
	CancelledAt               *time.Time
}

func (DeliveryRequestDTO) TableName() string {
	return "delivery_requests"
}

func fromDomain(r *delivery.Request) DeliveryRequestDTO {
	var partnerID *uuid.UUID
	if id := r.PartnerID(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	return DeliveryRequestDTO{
		ID:                        r.ID().Bytes(),
		OrderID:                   r.OrderID().Bytes(),
		AssignedDeliveryPartnerID: partnerID,
		Status:                    r.Status().String(),
		CreatedAt:                 r.CreatedAt(),
		AssignedAt:                r.AssignedAt(),
		CompletedAt:               r.CompletedAt(),
		CancelledAt:               r.CancelledAt(),
	}
}

func toDomain(dto DeliveryRequestDTO) (*delivery.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.AssignedDeliveryPartnerID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.AssignedDeliveryPartnerID)[:])
		if pErr != nil {
			return nil, pErr
		}
		partnerID = &pID
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreRequest(id, orderID, partnerID, status, dto.CreatedAt, dto.AssignedAt, dto.CompletedAt, dto.CancelledAt)
}
