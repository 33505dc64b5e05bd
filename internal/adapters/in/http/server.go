package http

import (
	"log/slog"
	"net/http"
	"time"

	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/api/servers"
	"iskxpress/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It turns requests into commands and queries and renders their results.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
		now:      time.Now,
	}
}

// GetCart handles GET /api/v1/cart.
func (s *Server) GetCart(ctx echo.Context) error {
	actor, err := s.buyer(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetCartQuery(actor.ID())
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.GetCart.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toCart(result))
}

// AddCartLine handles POST /api/v1/cart/lines.
func (s *Server) AddCartLine(ctx echo.Context) error {
	actor, err := s.buyer(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.AddCartLineJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	productID, err := kernelID("productId", body.ProductId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAddCartLineCommand(kernel.NewUUID(), actor.ID(), productID, body.Quantity, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	line, err := s.handlers.AddCartLine.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.CartLine{
		Id:        line.ID().Bytes(),
		ProductId: line.ProductID().Bytes(),
		StallId:   line.StallID().Bytes(),
		Quantity:  line.Quantity(),
	})
}

// UpdateCartLine handles PATCH /api/v1/cart/lines/{lineId}.
func (s *Server) UpdateCartLine(ctx echo.Context, lineId openapi_types.UUID) error {
	actor, err := s.buyer(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.UpdateCartLineJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	lineID, err := kernelID("lineId", lineId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateCartLineCommand(lineID, actor.ID(), body.Quantity, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	line, err := s.handlers.UpdateCartLine.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.CartLine{
		Id:        line.ID().Bytes(),
		ProductId: line.ProductID().Bytes(),
		StallId:   line.StallID().Bytes(),
		Quantity:  line.Quantity(),
	})
}

// RemoveCartLine handles DELETE /api/v1/cart/lines/{lineId}.
func (s *Server) RemoveCartLine(ctx echo.Context, lineId openapi_types.UUID) error {
	actor, err := s.buyer(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	lineID, err := kernelID("lineId", lineId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRemoveCartLineCommand(lineID, actor.ID())
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.handlers.RemoveCartLine.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Checkout handles POST /api/v1/orders/checkout.
func (s *Server) Checkout(ctx echo.Context) error {
	actor, err := s.buyer(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.CheckoutJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	lineIDs := make([]kernel.UUID, 0, len(body.LineIds))
	for _, raw := range body.LineIds {
		id, err := kernelID("lineIds", raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		lineIDs = append(lineIDs, id)
	}
	method, err := order.ParseFulfillmentMethod(string(body.FulfillmentMethod))
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(),
		actor.ID(),
		lineIDs,
		method,
		deref(body.DeliveryAddress),
		deref(body.Notes),
		s.now().UTC(),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.handlers.Checkout.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderView(result))
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.UpdateOrderStatusJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	target, err := order.ParseStatus(string(body.Status))
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// RejectOrder handles POST /api/v1/orders/{orderId}/reject.
func (s *Server) RejectOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.RejectOrderJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRejectOrderCommand(orderID, body.Reason, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	rejected, err := s.handlers.RejectOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(rejected))
}

// ConfirmOrder handles POST /api/v1/orders/{orderId}/confirmation.
func (s *Server) ConfirmOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	now := s.now().UTC()
	cmd, err := commands.NewConfirmOrderCommand(orderID, actor, now)
	if err != nil {
		return s.fail(ctx, err)
	}

	confirmed, err := s.handlers.ConfirmOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.ConfirmationStatus{
		Id:               confirmed.ID().Bytes(),
		OrderId:          confirmed.OrderID().Bytes(),
		CreatedAt:        confirmed.CreatedAt(),
		Deadline:         confirmed.Deadline(),
		IsConfirmed:      confirmed.IsConfirmed(),
		ConfirmedAt:      confirmed.ConfirmedAt(),
		IsAutoConfirmed:  confirmed.IsAutoConfirmed(),
		AutoConfirmedAt:  confirmed.AutoConfirmedAt(),
		RemainingSeconds: int64(confirmed.Remaining(now) / time.Second),
		IsExpired:        confirmed.IsExpired(now),
	})
}

// GetConfirmationStatus handles GET /api/v1/orders/{orderId}/confirmation.
func (s *Server) GetConfirmationStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetConfirmationStatusQuery(orderID, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.GetConfirmationStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.ConfirmationStatus{
		Id:               result.ConfirmationID.Bytes(),
		OrderId:          result.OrderID.Bytes(),
		CreatedAt:        result.CreatedAt,
		Deadline:         result.Deadline,
		IsConfirmed:      result.IsConfirmed,
		ConfirmedAt:      result.ConfirmedAt,
		IsAutoConfirmed:  result.IsAutoConfirmed,
		AutoConfirmedAt:  result.AutoConfirmedAt,
		RemainingSeconds: int64(result.Remaining / time.Second),
		IsExpired:        result.IsExpired,
	})
}

// CreateDeliveryRequest handles POST /api/v1/orders/{orderId}/delivery-requests.
func (s *Server) CreateDeliveryRequest(ctx echo.Context, orderId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := kernelID("orderId", orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateDeliveryRequestCommand(orderID, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.handlers.CreateDeliveryRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toDeliveryRequest(created))
}

// AssignDeliveryPartner handles POST /api/v1/delivery-requests/{requestId}/assign.
// Delivery partners may only take a request for themselves; the system may assign anyone.
func (s *Server) AssignDeliveryPartner(ctx echo.Context, requestId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body servers.AssignDeliveryPartnerJSONRequestBody
	if err := s.bind(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	requestID, err := kernelID("requestId", requestId)
	if err != nil {
		return s.fail(ctx, err)
	}
	partnerID, err := kernelID("partnerId", body.PartnerId)
	if err != nil {
		return s.fail(ctx, err)
	}

	switch actor.Role() {
	case kernel.RoleSystem:
	case kernel.RoleDeliveryPartner:
		if !actor.ID().IsEqual(partnerID) {
			return s.fail(ctx, errs.NewPermissionError(actor.String(), "assign another delivery partner"))
		}
	default:
		return s.fail(ctx, errs.NewPermissionError(actor.String(), "assign a delivery partner"))
	}

	cmd, err := commands.NewAssignDeliveryPartnerCommand(requestID, partnerID, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	assigned, err := s.handlers.AssignDeliveryPartner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryRequest(assigned))
}

// CompleteDeliveryRequest handles POST /api/v1/delivery-requests/{requestId}/complete.
func (s *Server) CompleteDeliveryRequest(ctx echo.Context, requestId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	requestID, err := kernelID("requestId", requestId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryRequestCommand(requestID, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	completed, err := s.handlers.CompleteDeliveryRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryRequest(completed))
}

// CancelDeliveryRequest handles POST /api/v1/delivery-requests/{requestId}/cancel.
func (s *Server) CancelDeliveryRequest(ctx echo.Context, requestId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	requestID, err := kernelID("requestId", requestId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelDeliveryRequestCommand(requestID, actor, s.now().UTC())
	if err != nil {
		return s.fail(ctx, err)
	}

	cancelled, err := s.handlers.CancelDeliveryRequest.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryRequest(cancelled))
}

// GetOpenStallOrders handles GET /api/v1/stalls/{stallId}/orders/open.
func (s *Server) GetOpenStallOrders(ctx echo.Context, stallId openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	stallID, err := kernelID("stallId", stallId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOpenStallOrdersQuery(stallID, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	rows, err := s.handlers.GetOpenStallOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.OrderSummary, len(rows))
	for i, row := range rows {
		response[i] = servers.OrderSummary{
			Id:                row.ID.Bytes(),
			UserId:            row.UserID.Bytes(),
			Status:            row.Status,
			FulfillmentMethod: row.FulfillmentMethod,
			TotalPrice:        row.TotalPrice.String(),
			ItemCount:         row.ItemCount,
			CreatedAt:         row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// buyer returns the caller when it acts as a buyer. Carts and checkout belong to users.
func (s *Server) buyer(ctx echo.Context) (kernel.Actor, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return kernel.Actor{}, err
	}
	if actor.Role() != kernel.RoleUser {
		return kernel.Actor{}, errs.NewPermissionError(actor.String(), "use a cart")
	}
	return actor, nil
}

func (s *Server) bind(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return ctx.Validate(body)
}

func (s *Server) fail(ctx echo.Context, err error) error {
	return respondError(ctx, s.logger, err)
}

func kernelID(param string, id openapi_types.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return parsed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
