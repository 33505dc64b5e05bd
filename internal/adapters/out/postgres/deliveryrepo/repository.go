package deliveryrepo

import (
	"context"
	"errors"
	"fmt"

	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRequestRepository implements DeliveryRequestRepository using GORM.
// The partial unique index on active requests turns a second Pending or Assigned
// request for one order into a duplicate key error, reported as a conflict.
type GormDeliveryRequestRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRequestRepository creates a new GORM delivery request repository.
func NewGormDeliveryRequestRepository(db *gorm.DB) *GormDeliveryRequestRepository {
	return &GormDeliveryRequestRepository{db: db}
}

// Add saves a new request. A second active request for the order is a conflict.
func (r *GormDeliveryRequestRepository) Add(ctx context.Context, request *delivery.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("delivery request", request.OrderID().String(), err)
		}
		return fmt.Errorf("insert delivery request: %w", err)
	}
	return nil
}

// Update saves an existing request.
func (r *GormDeliveryRequestRepository) Update(ctx context.Context, request *delivery.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	result := r.db.WithContext(ctx).
		Model(&DeliveryRequestDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"assigned_delivery_partner_id": dto.AssignedDeliveryPartnerID,
			"status":                       dto.Status,
			"assigned_at":                  dto.AssignedAt,
			"completed_at":                 dto.CompletedAt,
			"cancelled_at":                 dto.CancelledAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("delivery request", request.OrderID().String(), result.Error)
		}
		return fmt.Errorf("update delivery request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("deliveryRequest", request.ID().String())
	}
	return nil
}

// Get locks the request row for the rest of the transaction so concurrent
// assignments of one request serialize.
func (r *GormDeliveryRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryRequestDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryRequest", id.String())
		}
		return nil, fmt.Errorf("get delivery request: %w", err)
	}
	return toDomain(dto)
}

// FindCurrentByOrder returns the order's newest request, or nil when it has none.
func (r *GormDeliveryRequestRepository) FindCurrentByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Request, error) {
	var dtos []DeliveryRequestDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID.Bytes(), delivery.Cancelled.String()).
		Order("created_at DESC").
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("find current delivery request: %w", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}
