package queries

import (
	"context"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with its items straight from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("No such order for this actor")
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order if the actor may see it. An order hidden from the actor
// is reported as not found, so its existence does not leak.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var row struct {
		ID                 uuid.UUID
		UserID             uuid.UUID
		StallID            uuid.UUID
		Status             string
		FulfillmentMethod  string
		DeliveryAddress    string
		Notes              string
		DeliveryPartnerID  *uuid.UUID
		DeliveryFee        decimal.Decimal
		TotalPrice         decimal.Decimal
		TotalCommissionFee decimal.Decimal
		RejectionReason    string
		CreatedAt          time.Time
		UpdatedAt          time.Time
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id, user_id, stall_id, status, fulfillment_method,
			delivery_address, notes, delivery_partner_id,
			delivery_fee, total_price, total_commission_fee,
			rejection_reason, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	status, method, err := parseOrderState(row.Status, row.FulfillmentMethod)
	if err != nil {
		return nil, err
	}

	resp := &GetOrderQueryResponse{
		Status:             status,
		FulfillmentMethod:  method,
		DeliveryAddress:    row.DeliveryAddress,
		Notes:              row.Notes,
		DeliveryFee:        kernel.RestoreMoney(row.DeliveryFee),
		TotalPrice:         kernel.RestoreMoney(row.TotalPrice),
		TotalCommissionFee: kernel.RestoreMoney(row.TotalCommissionFee),
		RejectionReason:    row.RejectionReason,
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
	if resp.ID, err = kernel.UUIDFromBytes(row.ID[:]); err != nil {
		return nil, err
	}
	if resp.UserID, err = kernel.UUIDFromBytes(row.UserID[:]); err != nil {
		return nil, err
	}
	if resp.StallID, err = kernel.UUIDFromBytes(row.StallID[:]); err != nil {
		return nil, err
	}
	if resp.DeliveryPartnerID, err = optionalUUID(row.DeliveryPartnerID); err != nil {
		return nil, err
	}

	if !order.IsVisible(query.Actor(), resp.UserID, resp.StallID, resp.DeliveryPartnerID) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	if resp.Items, err = h.items(ctx, query.OrderID()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) items(ctx context.Context, orderID kernel.UUID) ([]OrderItemView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id, i.product_id, COALESCE(p.name, ''), i.quantity,
			i.price_each, i.commission_fee
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ?
		ORDER BY i.position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var (
			id, productID            uuid.UUID
			item                     OrderItemView
			priceEach, commissionFee decimal.Decimal
		)
		if err = rows.Scan(&id, &productID, &item.ProductName, &item.Quantity, &priceEach, &commissionFee); err != nil {
			return nil, err
		}

		var idErr error
		if item.ID, idErr = kernel.UUIDFromBytes(id[:]); idErr != nil {
			return nil, idErr
		}
		if item.ProductID, idErr = kernel.UUIDFromBytes(productID[:]); idErr != nil {
			return nil, idErr
		}
		item.PriceEach = kernel.RestoreMoney(priceEach)
		item.CommissionFee = kernel.RestoreMoney(commissionFee)
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// parseOrderState reads stored enum values the way the order repository does, so a
// corrupt row fails the read instead of reaching the client.
func parseOrderState(rawStatus, rawMethod string) (string, string, error) {
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return "", "", err
	}
	method, err := order.ParseFulfillmentMethod(rawMethod)
	if err != nil {
		return "", "", err
	}
	return status.String(), method.String(), nil
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
