// Package postgres provides the GORM-based Unit of Work that binds the order
// lifecycle repositories to one database transaction.
//
// Repositories obtained from a unit of work after Begin run inside its transaction;
// before Begin they use the plain connection. Orders saved through the unit of work
// are tracked, and Commit drains their recorded events into the outbox table before
// committing, so an order change and the event describing it persist together.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// A unit of work is not safe for concurrent use; create one per operation.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"iskxpress/internal/adapters/out/postgres/cartrepo"
	"iskxpress/internal/adapters/out/postgres/confirmationrepo"
	"iskxpress/internal/adapters/out/postgres/deliveryrepo"
	"iskxpress/internal/adapters/out/postgres/directoryrepo"
	"iskxpress/internal/adapters/out/postgres/orderrepo"
	"iskxpress/internal/adapters/out/postgres/outboxrepo"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/core/ports"

	"gorm.io/gorm"
)

// eventSource is an aggregate that records domain events.
type eventSource interface {
	PullEvents() []order.Event
}

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory whose units of work share db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create with the concrete type, for callers that adapt the unit of
// work to narrower interfaces.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates saved in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the tracked aggregates' events to the outbox and commits. If the
// outbox write fails the transaction is rolled back and nothing persists.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.flushEvents(ctx); err != nil {
		_ = uow.tx.Rollback().Error
		uow.reset()
		return err
	}

	err := uow.tx.Commit().Error
	uow.reset()
	return err
}

// Rollback discards the transaction. Without an open transaction it returns
// gorm.ErrInvalidTransaction, which deferred rollbacks after Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.reset()
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CartRepository() ports.CartRepository {
	return cartrepo.NewGormCartRepository(uow.conn())
}

func (uow *GormUnitOfWork) DeliveryRequestRepository() ports.DeliveryRequestRepository {
	return deliveryrepo.NewGormDeliveryRequestRepository(uow.conn())
}

func (uow *GormUnitOfWork) ConfirmationRepository() ports.ConfirmationRepository {
	return confirmationrepo.NewGormConfirmationRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) ProductReader() ports.ProductReader {
	return directoryrepo.NewGormProductReader(uow.conn())
}

func (uow *GormUnitOfWork) UserReader() ports.UserReader {
	return directoryrepo.NewGormUserReader(uow.conn())
}

func (uow *GormUnitOfWork) PartnerReader() ports.PartnerReader {
	return directoryrepo.NewGormPartnerReader(uow.conn())
}

func (uow *GormUnitOfWork) StallLedger() ports.StallLedger {
	return directoryrepo.NewGormStallLedger(uow.conn())
}

// TrackAggregate registers an aggregate saved within this unit of work. Repositories
// call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) reset() {
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
}

func (uow *GormUnitOfWork) flushEvents(ctx context.Context) error {
	var messages []ports.OutboxMessage
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		for _, e := range source.PullEvents() {
			payload, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("encode %s event: %w", e.EventType(), err)
			}
			messages = append(messages, ports.OutboxMessage{
				ID:          kernel.NewUUID(),
				AggregateID: e.AggregateID(),
				EventType:   e.EventType(),
				Payload:     payload,
				CreatedAt:   e.When(),
			})
		}
	}

	return outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, messages...)
}
