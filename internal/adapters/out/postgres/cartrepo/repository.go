package cartrepo

import (
	"context"
	"errors"
	"fmt"

	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM cart repository.
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Add saves a new cart line.
func (r *GormCartRepository) Add(ctx context.Context, line *cart.Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	dto := fromDomain(line)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("cart line", line.ProductID().String(), err)
		}
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

// Update saves an existing cart line.
func (r *GormCartRepository) Update(ctx context.Context, line *cart.Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	dto := fromDomain(line)
	result := r.db.WithContext(ctx).
		Model(&CartLineDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{"quantity": dto.Quantity, "updated_at": dto.UpdatedAt})
	if result.Error != nil {
		return fmt.Errorf("update cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("cartLine", line.ID().String())
	}
	return nil
}

// Get retrieves a cart line by ID.
func (r *GormCartRepository) Get(ctx context.Context, id kernel.UUID) (*cart.Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CartLineDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cartLine", id.String())
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return toDomain(dto)
}

// FindByProduct returns the user's line for productID, or nil.
func (r *GormCartRepository) FindByProduct(ctx context.Context, userID, productID kernel.UUID) (*cart.Line, error) {
	var dtos []CartLineDTO
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID.Bytes(), productID.Bytes()).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("find cart line: %w", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}

// GetForUser locks the returned rows so two checkouts of the same lines serialize.
func (r *GormCartRepository) GetForUser(ctx context.Context, userID kernel.UUID, ids []kernel.UUID) ([]*cart.Line, error) {
	if len(ids) == 0 {
		return []*cart.Line{}, nil
	}

	var dtos []CartLineDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND id IN ?", userID.Bytes(), rawIDs(ids)).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}

	lines := make([]*cart.Line, 0, len(dtos))
	for _, dto := range dtos {
		l, lErr := toDomain(dto)
		if lErr != nil {
			return nil, lErr
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// Remove deletes the given lines and reports how many existed.
func (r *GormCartRepository) Remove(ctx context.Context, ids ...kernel.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Delete(&CartLineDTO{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete cart lines: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
