package http

import (
	"context"

	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/order"
)

// Use case contracts the HTTP server depends on. The command and query handlers
// satisfy them as they are.
type (
	AddCartLineHandler interface {
		Handle(ctx context.Context, cmd commands.AddCartLineCommand) (*cart.Line, error)
	}

	UpdateCartLineHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCartLineCommand) (*cart.Line, error)
	}

	RemoveCartLineHandler interface {
		Handle(ctx context.Context, cmd commands.RemoveCartLineCommand) error
	}

	CheckoutHandler interface {
		Handle(ctx context.Context, cmd commands.CheckoutCommand) (*order.Order, error)
	}

	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}

	RejectOrderHandler interface {
		Handle(ctx context.Context, cmd commands.RejectOrderCommand) (*order.Order, error)
	}

	ConfirmOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmOrderCommand) (*confirmation.Confirmation, error)
	}

	CreateDeliveryRequestHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDeliveryRequestCommand) (*delivery.Request, error)
	}

	AssignDeliveryPartnerHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDeliveryPartnerCommand) (*delivery.Request, error)
	}

	CompleteDeliveryRequestHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryRequestCommand) (*delivery.Request, error)
	}

	CancelDeliveryRequestHandler interface {
		Handle(ctx context.Context, cmd commands.CancelDeliveryRequestCommand) (*delivery.Request, error)
	}

	GetCartHandler interface {
		Handle(ctx context.Context, query queries.GetCartQuery) (*queries.GetCartQueryResponse, error)
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
	}

	GetConfirmationStatusHandler interface {
		Handle(ctx context.Context, query queries.GetConfirmationStatusQuery) (*queries.GetConfirmationStatusQueryResponse, error)
	}

	GetOpenStallOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOpenStallOrdersQuery) ([]queries.GetOpenStallOrdersQueryResponse, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	AddCartLine    AddCartLineHandler
	UpdateCartLine UpdateCartLineHandler
	RemoveCartLine RemoveCartLineHandler
	Checkout       CheckoutHandler

	UpdateOrderStatus UpdateOrderStatusHandler
	RejectOrder       RejectOrderHandler
	ConfirmOrder      ConfirmOrderHandler

	CreateDeliveryRequest   CreateDeliveryRequestHandler
	AssignDeliveryPartner   AssignDeliveryPartnerHandler
	CompleteDeliveryRequest CompleteDeliveryRequestHandler
	CancelDeliveryRequest   CancelDeliveryRequestHandler

	GetCart               GetCartHandler
	GetOrder              GetOrderHandler
	GetConfirmationStatus GetConfirmationStatusHandler
	GetOpenStallOrders    GetOpenStallOrdersHandler
}
