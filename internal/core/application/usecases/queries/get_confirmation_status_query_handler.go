package queries

import (
	"context"
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetConfirmationStatusQueryHandler reports an order's confirmation window.
type GetConfirmationStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetConfirmationStatusQueryHandler creates a handler for confirmation status reads.
func NewGetConfirmationStatusQueryHandler(db *gorm.DB) GetConfirmationStatusQueryHandler {
	return GetConfirmationStatusQueryHandler{db: db}
}

// Handle reads the confirmation of an order the actor may see. An order without a
// confirmation, or one hidden from the actor, is not found.
func (h GetConfirmationStatusQueryHandler) Handle(
	ctx context.Context,
	query GetConfirmationStatusQuery,
) (*GetConfirmationStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var row struct {
		ID                   uuid.UUID
		OrderID              uuid.UUID
		UserID               uuid.UUID
		StallID              uuid.UUID
		DeliveryPartnerID    *uuid.UUID
		CreatedAt            time.Time
		ConfirmationDeadline time.Time
		IsConfirmed          bool
		ConfirmedAt          *time.Time
		IsAutoConfirmed      bool
		AutoConfirmedAt      *time.Time
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id, c.order_id, o.user_id, o.stall_id, o.delivery_partner_id,
			c.created_at, c.confirmation_deadline,
			c.is_confirmed, c.confirmed_at,
			c.is_auto_confirmed, c.auto_confirmed_at
		FROM order_confirmations c
		JOIN orders o ON o.id = c.order_id
		WHERE c.order_id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("orderConfirmation", query.OrderID().String())
	}

	userID, err := kernel.UUIDFromBytes(row.UserID[:])
	if err != nil {
		return nil, err
	}
	stallID, err := kernel.UUIDFromBytes(row.StallID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := optionalUUID(row.DeliveryPartnerID)
	if err != nil {
		return nil, err
	}
	if !order.IsVisible(query.Actor(), userID, stallID, partnerID) {
		return nil, errs.NewObjectNotFoundError("orderConfirmation", query.OrderID().String())
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return nil, err
	}
	c, err := confirmation.Restore(
		id, query.OrderID(),
		row.CreatedAt, row.ConfirmationDeadline,
		row.IsConfirmed, row.ConfirmedAt,
		row.IsAutoConfirmed, row.AutoConfirmedAt,
	)
	if err != nil {
		return nil, err
	}

	return &GetConfirmationStatusQueryResponse{
		ConfirmationID:  c.ID(),
		OrderID:         c.OrderID(),
		CreatedAt:       c.CreatedAt().UTC(),
		Deadline:        c.Deadline().UTC(),
		IsConfirmed:     c.IsConfirmed(),
		ConfirmedAt:     c.ConfirmedAt(),
		IsAutoConfirmed: c.IsAutoConfirmed(),
		AutoConfirmedAt: c.AutoConfirmedAt(),
		Remaining:       c.Remaining(query.Now()),
		IsExpired:       c.IsExpired(query.Now()),
	}, nil
}
