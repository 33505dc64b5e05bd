// Package directory holds read-only snapshots of the records the order lifecycle
// borrows from neighbouring contexts: catalog products, user accounts, stalls and
// delivery partners. They are looked up by identifier and never modified here.
package directory

import (
	"iskxpress/internal/core/domain/model/kernel"
)

// Product is the catalog data checkout needs to price a cart line.
type Product struct {
	ID          kernel.UUID
	StallID     kernel.UUID
	Name        string
	BasePrice   kernel.Money
	IsAvailable bool
}

// User is a marketplace account.
type User struct {
	ID        kernel.UUID
	Role      kernel.Role
	IsPremium bool
}

// Partner is a registered delivery partner. Its ID is the partner's user account ID.
type Partner struct {
	ID       kernel.UUID
	Name     string
	IsActive bool
}

// Stall is a vendor's shop with its running commission balance.
type Stall struct {
	ID          kernel.UUID
	VendorID    kernel.UUID
	Name        string
	PendingFees kernel.Money
}
