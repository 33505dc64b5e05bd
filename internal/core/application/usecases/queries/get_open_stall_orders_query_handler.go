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

// GetOpenStallOrdersQueryHandler serves a vendor's work queue: the stall's orders
// that are neither accomplished nor rejected, oldest first.
type GetOpenStallOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenStallOrdersQueryHandler creates a handler for the stall work queue.
func NewGetOpenStallOrdersQueryHandler(db *gorm.DB) GetOpenStallOrdersQueryHandler {
	return GetOpenStallOrdersQueryHandler{db: db}
}

// Handle lists the stall's open orders. Only the stall's vendor and the system may
// read the queue.
func (h GetOpenStallOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenStallOrdersQuery,
) ([]GetOpenStallOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if actor.Role() != kernel.RoleSystem && !actor.RunsStall(query.StallID()) {
		return nil, errs.NewPermissionError(actor.String(), "read the orders of stall "+query.StallID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.user_id,
			o.status,
			o.fulfillment_method,
			o.total_price,
			(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id),
			o.created_at
		FROM orders o
		WHERE o.stall_id = ? AND o.status NOT IN (?, ?)
		ORDER BY o.created_at, o.id
	`, query.StallID().Bytes(), string(order.Accomplished), string(order.Rejected)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOpenStallOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp           GetOpenStallOrdersQueryResponse
			id, userID     uuid.UUID
			status, method string
			total          decimal.Decimal
			createdAt      time.Time
		)
		if err = rows.Scan(&id, &userID, &status, &method, &total, &resp.ItemCount, &createdAt); err != nil {
			return nil, err
		}
		if resp.Status, resp.FulfillmentMethod, err = parseOrderState(status, method); err != nil {
			return nil, err
		}

		var idErr error
		if resp.ID, idErr = kernel.UUIDFromBytes(id[:]); idErr != nil {
			return nil, idErr
		}
		if resp.UserID, idErr = kernel.UUIDFromBytes(userID[:]); idErr != nil {
			return nil, idErr
		}
		resp.TotalPrice = kernel.RestoreMoney(total)
		resp.CreatedAt = createdAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
