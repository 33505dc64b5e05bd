package http_test

import (
	"context"

	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockAddCartLine struct{ mock.Mock }

func (m *MockAddCartLine) Handle(ctx context.Context, cmd commands.AddCartLineCommand) (*cart.Line, error) {
	args := m.Called(ctx, cmd)
	line, _ := args.Get(0).(*cart.Line)
	return line, args.Error(1)
}

type MockCheckout struct{ mock.Mock }

func (m *MockCheckout) Handle(ctx context.Context, cmd commands.CheckoutCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdateOrderStatus struct{ mock.Mock }

func (m *MockUpdateOrderStatus) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockRejectOrder struct{ mock.Mock }

func (m *MockRejectOrder) Handle(ctx context.Context, cmd commands.RejectOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockConfirmOrder struct{ mock.Mock }

func (m *MockConfirmOrder) Handle(ctx context.Context, cmd commands.ConfirmOrderCommand) (*confirmation.Confirmation, error) {
	args := m.Called(ctx, cmd)
	c, _ := args.Get(0).(*confirmation.Confirmation)
	return c, args.Error(1)
}

type MockAssignDeliveryPartner struct{ mock.Mock }

func (m *MockAssignDeliveryPartner) Handle(ctx context.Context, cmd commands.AssignDeliveryPartnerCommand) (*delivery.Request, error) {
	args := m.Called(ctx, cmd)
	r, _ := args.Get(0).(*delivery.Request)
	return r, args.Error(1)
}

type MockGetCart struct{ mock.Mock }

func (m *MockGetCart) Handle(ctx context.Context, query queries.GetCartQuery) (*queries.GetCartQueryResponse, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(*queries.GetCartQueryResponse)
	return r, args.Error(1)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(*queries.GetOrderQueryResponse)
	return r, args.Error(1)
}

type MockGetConfirmationStatus struct{ mock.Mock }

func (m *MockGetConfirmationStatus) Handle(
	ctx context.Context,
	query queries.GetConfirmationStatusQuery,
) (*queries.GetConfirmationStatusQueryResponse, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(*queries.GetConfirmationStatusQueryResponse)
	return r, args.Error(1)
}

type MockGetOpenStallOrders struct{ mock.Mock }

func (m *MockGetOpenStallOrders) Handle(
	ctx context.Context,
	query queries.GetOpenStallOrdersQuery,
) ([]queries.GetOpenStallOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).([]queries.GetOpenStallOrdersQueryResponse)
	return r, args.Error(1)
}
