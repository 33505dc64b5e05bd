package ports

import (
	"context"

	"iskxpress/internal/core/domain/model/directory"
	"iskxpress/internal/core/domain/model/kernel"
)

// ProductReader looks up catalog products. Unknown ids are errs.ObjectNotFoundError.
type ProductReader interface {
	Get(ctx context.Context, id kernel.UUID) (directory.Product, error)
	GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]directory.Product, error)
}

// UserReader looks up marketplace accounts.
type UserReader interface {
	Get(ctx context.Context, id kernel.UUID) (directory.User, error)
}

// PartnerReader looks up delivery partners.
type PartnerReader interface {
	Get(ctx context.Context, id kernel.UUID) (directory.Partner, error)
}

// StallLedger keeps stalls' running commission balances.
type StallLedger interface {
	// AccruePendingFees adds amount to the stall's pending fees as one atomic delta.
	AccruePendingFees(ctx context.Context, stallID kernel.UUID, amount kernel.Money) error
}
