package commands_test

import (
	"context"
	"time"

	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/directory"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Add(ctx context.Context, l *cart.Line) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockCartRepository) Update(ctx context.Context, l *cart.Line) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockCartRepository) Get(ctx context.Context, id kernel.UUID) (*cart.Line, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartRepository) FindByProduct(ctx context.Context, userID, productID kernel.UUID) (*cart.Line, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartRepository) GetForUser(ctx context.Context, userID kernel.UUID, ids []kernel.UUID) ([]*cart.Line, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.Line), args.Error(1)
}

func (m *MockCartRepository) Remove(ctx context.Context, ids ...kernel.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockDeliveryRequestRepository struct{ mock.Mock }

func (m *MockDeliveryRequestRepository) Add(ctx context.Context, r *delivery.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDeliveryRequestRepository) Update(ctx context.Context, r *delivery.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDeliveryRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Request), args.Error(1)
}

func (m *MockDeliveryRequestRepository) FindCurrentByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Request, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Request), args.Error(1)
}

type MockConfirmationRepository struct{ mock.Mock }

func (m *MockConfirmationRepository) Add(ctx context.Context, c *confirmation.Confirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConfirmationRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmation.Confirmation), args.Error(1)
}

func (m *MockConfirmationRepository) FindByOrder(ctx context.Context, orderID kernel.UUID) (*confirmation.Confirmation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmation.Confirmation), args.Error(1)
}

func (m *MockConfirmationRepository) Finalize(ctx context.Context, c *confirmation.Confirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConfirmationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockConfirmationRepository) LockExpired(ctx context.Context, id kernel.UUID, now time.Time) (*confirmation.Confirmation, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmation.Confirmation), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) LockUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

type MockProductReader struct{ mock.Mock }

func (m *MockProductReader) Get(ctx context.Context, id kernel.UUID) (directory.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(directory.Product), args.Error(1)
}

func (m *MockProductReader) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]directory.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]directory.Product), args.Error(1)
}

type MockUserReader struct{ mock.Mock }

func (m *MockUserReader) Get(ctx context.Context, id kernel.UUID) (directory.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(directory.User), args.Error(1)
}

type MockPartnerReader struct{ mock.Mock }

func (m *MockPartnerReader) Get(ctx context.Context, id kernel.UUID) (directory.Partner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(directory.Partner), args.Error(1)
}

type MockStallLedger struct{ mock.Mock }

func (m *MockStallLedger) AccruePendingFees(ctx context.Context, stallID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, stallID, amount)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}

func (m *MockUoW) DeliveryRequestRepository() ports.DeliveryRequestRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRequestRepository)
}

func (m *MockUoW) ConfirmationRepository() ports.ConfirmationRepository {
	args := m.Called()
	return args.Get(0).(ports.ConfirmationRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

func (m *MockUoW) ProductReader() ports.ProductReader {
	args := m.Called()
	return args.Get(0).(ports.ProductReader)
}

func (m *MockUoW) UserReader() ports.UserReader {
	args := m.Called()
	return args.Get(0).(ports.UserReader)
}

func (m *MockUoW) PartnerReader() ports.PartnerReader {
	args := m.Called()
	return args.Get(0).(ports.PartnerReader)
}

func (m *MockUoW) StallLedger() ports.StallLedger {
	args := m.Called()
	return args.Get(0).(ports.StallLedger)
}

// MockUoWFactory hands out the queued units of work in order, one per Create call.
type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) next() *MockUoW {
	args := m.MethodCalled("Create")
	return args.Get(0).(*MockUoW)
}

type (
	cartFactory         struct{ *MockUoWFactory }
	checkoutFactory     struct{ *MockUoWFactory }
	orderFactory        struct{ *MockUoWFactory }
	deliveryFactory     struct{ *MockUoWFactory }
	confirmationFactory struct{ *MockUoWFactory }
	outboxFactory       struct{ *MockUoWFactory }
)

func (f cartFactory) Create() commands.CartUoW {
	return f.next()
}

func (f checkoutFactory) Create() commands.CheckoutUoW {
	return f.next()
}

func (f orderFactory) Create() commands.OrderUoW {
	return f.next()
}

func (f deliveryFactory) Create() commands.DeliveryUoW {
	return f.next()
}

func (f confirmationFactory) Create() commands.ConfirmationUoW {
	return f.next()
}

func (f outboxFactory) Create() commands.OutboxUoW {
	return f.next()
}

func factoryFor(uows ...*MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	for _, u := range uows {
		f.On("Create").Return(u).Once()
	}
	return f
}
