package queries

import (
	"context"
	"time"

	"iskxpress/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetCartQueryHandler lists a buyer's cart lines with product details.
type GetCartQueryHandler struct {
	db *gorm.DB
}

// NewGetCartQueryHandler creates a handler for cart reads.
func NewGetCartQueryHandler(db *gorm.DB) GetCartQueryHandler {
	return GetCartQueryHandler{db: db}
}

// Handle returns the lines oldest first; an empty cart is an empty slice.
func (h GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (*GetCartQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.id, l.product_id, p.name, l.stall_id, l.quantity,
			p.base_price, p.is_available, l.created_at
		FROM cart_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.user_id = ?
		ORDER BY l.created_at, l.id
	`, query.UserID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resp := &GetCartQueryResponse{Lines: make([]CartLineView, 0)}
	for rows.Next() {
		var (
			line                   CartLineView
			id, productID, stallID uuid.UUID
			basePrice              decimal.Decimal
			addedAt                time.Time
		)
		err = rows.Scan(&id, &productID, &line.ProductName, &stallID, &line.Quantity,
			&basePrice, &line.IsAvailable, &addedAt)
		if err != nil {
			return nil, err
		}

		var idErr error
		if line.ID, idErr = kernel.UUIDFromBytes(id[:]); idErr != nil {
			return nil, idErr
		}
		if line.ProductID, idErr = kernel.UUIDFromBytes(productID[:]); idErr != nil {
			return nil, idErr
		}
		if line.StallID, idErr = kernel.UUIDFromBytes(stallID[:]); idErr != nil {
			return nil, idErr
		}
		line.BasePrice = kernel.RestoreMoney(basePrice)
		line.LineTotal = line.BasePrice.Times(line.Quantity)
		line.AddedAt = addedAt.UTC()

		resp.Lines = append(resp.Lines, line)
		resp.BaseSubtotal = resp.BaseSubtotal.Add(line.LineTotal)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return resp, nil
}
