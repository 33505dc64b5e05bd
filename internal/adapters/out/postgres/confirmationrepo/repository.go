package confirmationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const openRow = "is_confirmed = false AND is_auto_confirmed = false"

// awaitingReceipt keeps confirmations whose order already left ToReceive out of the
// sweep; such rows are inconsistent and would otherwise occupy a batch slot every tick.
const awaitingReceipt = "EXISTS (SELECT 1 FROM orders WHERE orders.id = order_confirmations.order_id AND orders.status = ?)"

// GormConfirmationRepository implements ConfirmationRepository using GORM.
type GormConfirmationRepository struct {
	db *gorm.DB
}

// NewGormConfirmationRepository creates a new GORM confirmation repository.
func NewGormConfirmationRepository(db *gorm.DB) *GormConfirmationRepository {
	return &GormConfirmationRepository{db: db}
}

// Add relies on the unique order_id: a second confirmation for an order is an
// invalid transition, not a storage failure.
func (r *GormConfirmationRepository) Add(ctx context.Context, c *confirmation.Confirmation) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewInvalidTransitionErrorWithCause("order confirmation", "Open", "Open", err)
		}
		return fmt.Errorf("insert confirmation: %w", err)
	}
	return nil
}

// GetByOrder is FindByOrder with a missing confirmation reported as not found.
func (r *GormConfirmationRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error) {
	c, err := r.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewObjectNotFoundError("orderConfirmation", orderID.String())
	}
	return c, nil
}

// FindByOrder returns the order's confirmation, or nil when none was opened.
func (r *GormConfirmationRepository) FindByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ConfirmationDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Limit(1).Find(&dtos).Error; err != nil {
		return nil, fmt.Errorf("find confirmation: %w", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}

// Finalize writes whichever flag c carries, but only onto a row that is still open.
func (r *GormConfirmationRepository) Finalize(ctx context.Context, c *confirmation.Confirmation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsFinalized() {
		return errs.NewValueIsInvalidError("confirmation is not finalized")
	}

	dto := fromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&ConfirmationDTO{}).
		Where("id = ? AND "+openRow, dto.ID).
		Updates(map[string]any{
			"is_confirmed":      dto.IsConfirmed,
			"confirmed_at":      dto.ConfirmedAt,
			"is_auto_confirmed": dto.IsAutoConfirmed,
			"auto_confirmed_at": dto.AutoConfirmedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("finalize confirmation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order confirmation", c.ID().String())
	}
	return nil
}

func (r *GormConfirmationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ConfirmationDTO{}).
		Where(openRow+" AND confirmation_deadline < ?", now).
		Where(awaitingReceipt, order.ToReceive.String()).
		Order("confirmation_deadline").
		Limit(limit).
		Pluck("id", &raw).Error
	if err != nil {
		return nil, fmt.Errorf("list expired confirmations: %w", err)
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		kid, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, kid)
	}
	return ids, nil
}

func (r *GormConfirmationRepository) LockExpired(ctx context.Context, id kernel.UUID, now time.Time) (*confirmation.Confirmation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dtos []ConfirmationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("id = ? AND "+openRow+" AND confirmation_deadline < ?", id.Bytes(), now).
		Where(awaitingReceipt, order.ToReceive.String()).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("lock expired confirmation: %w", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}
