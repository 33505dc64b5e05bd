// Package cartrepo persists buyers' cart lines.
package cartrepo

import (
	"time"

	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CartLineDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_cart_lines_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_cart_lines_user_product"`
	StallID   uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CartLineDTO) TableName() string {
	return "cart_lines"
}

func fromDomain(l *cart.Line) CartLineDTO {
	return CartLineDTO{
		ID:        l.ID().Bytes(),
		UserID:    l.UserID().Bytes(),
		ProductID: l.ProductID().Bytes(),
		StallID:   l.StallID().Bytes(),
		Quantity:  l.Quantity(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}

func toDomain(dto CartLineDTO) (*cart.Line, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.UserID, dto.ProductID, dto.StallID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return cart.RestoreLine(ids[0], ids[1], ids[2], ids[3], dto.Quantity, dto.CreatedAt, dto.UpdatedAt)
}
