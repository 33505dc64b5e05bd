// Package directoryrepo reads the catalog, account and partner records the order
// lifecycle borrows, and keeps the stalls' commission balance.
package directoryrepo

import (
	"iskxpress/internal/core/domain/model/directory"
	"iskxpress/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StallID     uuid.UUID       `gorm:"type:uuid;not null"`
	Name        string          `gorm:"not null"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsAvailable bool            `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null"`
	IsPremium bool      `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

type PartnerDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"not null"`
	IsActive bool      `gorm:"not null"`
}

func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

type StallDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null"`
	Name        string          `gorm:"not null"`
	PendingFees decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (StallDTO) TableName() string {
	return "stalls"
}

func (dto ProductDTO) toDomain() (directory.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return directory.Product{}, err
	}
	stallID, err := kernel.UUIDFromBytes(dto.StallID[:])
	if err != nil {
		return directory.Product{}, err
	}
	return directory.Product{
		ID:          id,
		StallID:     stallID,
		Name:        dto.Name,
		BasePrice:   kernel.RestoreMoney(dto.BasePrice),
		IsAvailable: dto.IsAvailable,
	}, nil
}

func (dto UserDTO) toDomain() (directory.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return directory.User{}, err
	}
	role := kernel.Role(dto.Role)
	if err := role.Validate(); err != nil {
		return directory.User{}, err
	}
	return directory.User{ID: id, Role: role, IsPremium: dto.IsPremium}, nil
}

func (dto PartnerDTO) toDomain() (directory.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return directory.Partner{}, err
	}
	return directory.Partner{ID: id, Name: dto.Name, IsActive: dto.IsActive}, nil
}
