package directoryrepo

import (
	"context"
	"errors"
	"fmt"

	"iskxpress/internal/core/domain/model/directory"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductReader implements ProductReader using GORM. A product carries its
// stall id, which is how cart lines and checkouts learn their stall.
type GormProductReader struct {
	db *gorm.DB
}

// NewGormProductReader creates a new GORM product reader.
func NewGormProductReader(db *gorm.DB) *GormProductReader {
	return &GormProductReader{db: db}
}

// Get retrieves a product by ID.
func (r *GormProductReader) Get(ctx context.Context, id kernel.UUID) (directory.Product, error) {
	if err := id.Validate(); err != nil {
		return directory.Product{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return directory.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return directory.Product{}, fmt.Errorf("get product: %w", err)
	}
	return dto.toDomain()
}

// GetMany fails with a not found error naming the first id that has no product.
func (r *GormProductReader) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]directory.Product, error) {
	products := make(map[kernel.UUID]directory.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	for _, dto := range dtos {
		p, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		products[p.ID] = p
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
	}
	return products, nil
}

// GormUserReader implements UserReader using GORM.
type GormUserReader struct {
	db *gorm.DB
}

// NewGormUserReader creates a new GORM user reader.
func NewGormUserReader(db *gorm.DB) *GormUserReader {
	return &GormUserReader{db: db}
}

// Get retrieves a user by ID.
func (r *GormUserReader) Get(ctx context.Context, id kernel.UUID) (directory.User, error) {
	if err := id.Validate(); err != nil {
		return directory.User{}, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return directory.User{}, errs.NewObjectNotFoundError("user", id.String())
		}
		return directory.User{}, fmt.Errorf("get user: %w", err)
	}
	return dto.toDomain()
}

// GormPartnerReader implements PartnerReader using GORM.
type GormPartnerReader struct {
	db *gorm.DB
}

// NewGormPartnerReader creates a new GORM delivery partner reader.
func NewGormPartnerReader(db *gorm.DB) *GormPartnerReader {
	return &GormPartnerReader{db: db}
}

// Get retrieves a delivery partner by ID, active or not.
func (r *GormPartnerReader) Get(ctx context.Context, id kernel.UUID) (directory.Partner, error) {
	if err := id.Validate(); err != nil {
		return directory.Partner{}, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return directory.Partner{}, errs.NewObjectNotFoundError("deliveryPartner", id.String())
		}
		return directory.Partner{}, fmt.Errorf("get delivery partner: %w", err)
	}
	return dto.toDomain()
}

// GormStallLedger adds to pending fees with a single UPDATE so concurrent
// confirmations for one stall never lose an increment.
type GormStallLedger struct {
	db *gorm.DB
}

// NewGormStallLedger creates a new GORM stall ledger.
func NewGormStallLedger(db *gorm.DB) *GormStallLedger {
	return &GormStallLedger{db: db}
}

// AccruePendingFees adds amount to the stall's pending fees. An unknown stall is not found.
func (l *GormStallLedger) AccruePendingFees(ctx context.Context, stallID kernel.UUID, amount kernel.Money) error {
	if err := stallID.Validate(); err != nil {
		return err
	}

	result := l.db.WithContext(ctx).
		Model(&StallDTO{}).
		Where("id = ?", stallID.Bytes()).
		Update("pending_fees", gorm.Expr("pending_fees + ?", amount.Decimal()))
	if result.Error != nil {
		return fmt.Errorf("accrue pending fees: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("stall", stallID.String())
	}
	return nil
}
