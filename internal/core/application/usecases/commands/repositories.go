// Package commands contains the operations that change the order lifecycle's state.
// Every handler follows the same shape: validate the command, open a unit of work,
// load aggregates, let the domain decide, persist, commit.
package commands

import (
	"context"

	"iskxpress/internal/core/ports"
)

// Unit of Work interfaces give each handler exactly the repositories it touches.
// One transactional implementation satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	DeliveryRequestRepoFactory interface {
		DeliveryRequestRepository() ports.DeliveryRequestRepository
	}

	ConfirmationRepoFactory interface {
		ConfirmationRepository() ports.ConfirmationRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	ProductReaderFactory interface {
		ProductReader() ports.ProductReader
	}

	UserReaderFactory interface {
		UserReader() ports.UserReader
	}

	PartnerReaderFactory interface {
		PartnerReader() ports.PartnerReader
	}

	StallLedgerFactory interface {
		StallLedger() ports.StallLedger
	}

	// CartUoW serves cart line maintenance.
	CartUoW interface {
		TxManager
		CartRepoFactory
		ProductReaderFactory
	}

	CartUoWFactory interface {
		Create() CartUoW
	}

	// CheckoutUoW spans the cart and the order it becomes, so checkout is all or nothing.
	CheckoutUoW interface {
		TxManager
		CartRepoFactory
		OrderRepoFactory
		ProductReaderFactory
		UserReaderFactory
	}

	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// OrderUoW serves status transitions, which may open a delivery request or a
	// confirmation alongside the order update.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRequestRepoFactory
		ConfirmationRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DeliveryUoW serves the delivery request lifecycle.
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRequestRepoFactory
		PartnerReaderFactory
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// ConfirmationUoW serves manual and automatic confirmation, which finalize the
	// confirmation, accomplish the order and accrue the stall's fees together.
	ConfirmationUoW interface {
		TxManager
		OrderRepoFactory
		ConfirmationRepoFactory
		StallLedgerFactory
	}

	ConfirmationUoWFactory interface {
		Create() ConfirmationUoW
	}

	// OutboxUoW serves the outbox relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
