// Package orderrepo persists Order aggregates: one orders row plus its order_items.
package orderrepo

import (
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Items are loaded through the has-many association.
type OrderDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	StallID            uuid.UUID       `gorm:"type:uuid;not null"`
	Status             string          `gorm:"type:text;not null"`
	FulfillmentMethod  string          `gorm:"type:text;not null"`
	DeliveryAddress    string          `gorm:"type:text;not null;default:''"`
	Notes              string          `gorm:"type:text;not null;default:''"`
	DeliveryPartnerID  *uuid.UUID      `gorm:"type:uuid"`
	TotalPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalCommissionFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RejectionReason    string          `gorm:"type:text;not null;default:''"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
	Version            int             `gorm:"not null;default:1"`
	Items              []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one frozen price line. Position keeps checkout order on reload.
type OrderItemDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      int             `gorm:"not null"`
	PriceEach     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CommissionFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Position      int             `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:            item.ID().Bytes(),
			OrderID:       orderID,
			ProductID:     item.ProductID().Bytes(),
			Quantity:      item.Quantity(),
			PriceEach:     item.PriceEach().Decimal(),
			CommissionFee: item.CommissionFee().Decimal(),
			Position:      i,
		})
	}

	return OrderDTO{
		ID:                 orderID,
		UserID:             o.UserID().Bytes(),
		StallID:            o.StallID().Bytes(),
		Status:             o.Status().String(),
		FulfillmentMethod:  o.FulfillmentMethod().String(),
		DeliveryAddress:    o.DeliveryAddress(),
		Notes:              o.Notes(),
		DeliveryPartnerID:  partnerBytes(o.DeliveryPartnerID()),
		TotalPrice:         o.TotalPrice().Decimal(),
		TotalCommissionFee: o.TotalCommissionFee().Decimal(),
		DeliveryFee:        o.DeliveryFee().Decimal(),
		RejectionReason:    o.RejectionReason(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Version:            o.Version(),
		Items:              items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	stallID, err := kernel.UUIDFromBytes(dto.StallID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.DeliveryPartnerID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.DeliveryPartnerID)[:])
		if pErr != nil {
			return nil, pErr
		}
		partnerID = &pID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	method, err := order.ParseFulfillmentMethod(dto.FulfillmentMethod)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		UserID:             userID,
		StallID:            stallID,
		Status:             status,
		FulfillmentMethod:  method,
		DeliveryAddress:    dto.DeliveryAddress,
		Notes:              dto.Notes,
		DeliveryPartnerID:  partnerID,
		Items:              items,
		DeliveryFee:        kernel.RestoreMoney(dto.DeliveryFee),
		TotalPrice:         kernel.RestoreMoney(dto.TotalPrice),
		TotalCommissionFee: kernel.RestoreMoney(dto.TotalCommissionFee),
		RejectionReason:    dto.RejectionReason,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}

func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, productID, dto.Quantity, kernel.RestoreMoney(dto.PriceEach), kernel.RestoreMoney(dto.CommissionFee))
}

func partnerBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
