package servers

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List the caller's cart lines
	// (GET /cart)
	GetCart(ctx echo.Context) error

	// Put a product into the cart
	// (POST /cart/lines)
	AddCartLine(ctx echo.Context) error

	// Remove a line from the cart
	// (DELETE /cart/lines/{lineId})
	RemoveCartLine(ctx echo.Context, lineId openapi_types.UUID) error

	// Change a line's quantity
	// (PATCH /cart/lines/{lineId})
	UpdateCartLine(ctx echo.Context, lineId openapi_types.UUID) error

	// Assign a delivery partner to a pending request
	// (POST /delivery-requests/{requestId}/assign)
	AssignDeliveryPartner(ctx echo.Context, requestId openapi_types.UUID) error

	// Cancel an active request
	// (POST /delivery-requests/{requestId}/cancel)
	CancelDeliveryRequest(ctx echo.Context, requestId openapi_types.UUID) error

	// Mark an assigned request delivered
	// (POST /delivery-requests/{requestId}/complete)
	CompleteDeliveryRequest(ctx echo.Context, requestId openapi_types.UUID) error

	// Turn selected cart lines of one stall into an order
	// (POST /orders/checkout)
	Checkout(ctx echo.Context) error

	// Read an order with its items
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error

	// Read the receipt confirmation window
	// (GET /orders/{orderId}/confirmation)
	GetConfirmationStatus(ctx echo.Context, orderId openapi_types.UUID) error

	// Confirm receipt of an order
	// (POST /orders/{orderId}/confirmation)
	ConfirmOrder(ctx echo.Context, orderId openapi_types.UUID) error

	// Open a new delivery request after the previous one was cancelled
	// (POST /orders/{orderId}/delivery-requests)
	CreateDeliveryRequest(ctx echo.Context, orderId openapi_types.UUID) error

	// Decline a pending order
	// (POST /orders/{orderId}/reject)
	RejectOrder(ctx echo.Context, orderId openapi_types.UUID) error

	// Move an order to its next status
	// (POST /orders/{orderId}/status)
	UpdateOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error

	// The stall's unfinished orders, oldest first
	// (GET /stalls/{stallId}/orders/open)
	GetOpenStallOrders(ctx echo.Context, stallId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetCart converts echo context to params.
func (w *ServerInterfaceWrapper) GetCart(ctx echo.Context) error {
	var err error
	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetCart(ctx)
	return err
}

// AddCartLine converts echo context to params.
func (w *ServerInterfaceWrapper) AddCartLine(ctx echo.Context) error {
	var err error
	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.AddCartLine(ctx)
	return err
}

// RemoveCartLine converts echo context to params.
func (w *ServerInterfaceWrapper) RemoveCartLine(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "lineId" -------------
	var lineId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "lineId", ctx.Param("lineId"), &lineId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lineId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RemoveCartLine(ctx, lineId)
	return err
}

// UpdateCartLine converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateCartLine(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "lineId" -------------
	var lineId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "lineId", ctx.Param("lineId"), &lineId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lineId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.UpdateCartLine(ctx, lineId)
	return err
}

// AssignDeliveryPartner converts echo context to params.
func (w *ServerInterfaceWrapper) AssignDeliveryPartner(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "requestId" -------------
	var requestId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "requestId", ctx.Param("requestId"), &requestId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter requestId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.AssignDeliveryPartner(ctx, requestId)
	return err
}

// CancelDeliveryRequest converts echo context to params.
func (w *ServerInterfaceWrapper) CancelDeliveryRequest(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "requestId" -------------
	var requestId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "requestId", ctx.Param("requestId"), &requestId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter requestId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CancelDeliveryRequest(ctx, requestId)
	return err
}

// CompleteDeliveryRequest converts echo context to params.
func (w *ServerInterfaceWrapper) CompleteDeliveryRequest(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "requestId" -------------
	var requestId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "requestId", ctx.Param("requestId"), &requestId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter requestId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CompleteDeliveryRequest(ctx, requestId)
	return err
}

// Checkout converts echo context to params.
func (w *ServerInterfaceWrapper) Checkout(ctx echo.Context) error {
	var err error
	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.Checkout(ctx)
	return err
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetOrder(ctx, orderId)
	return err
}

// GetConfirmationStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetConfirmationStatus(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetConfirmationStatus(ctx, orderId)
	return err
}

// ConfirmOrder converts echo context to params.
func (w *ServerInterfaceWrapper) ConfirmOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ConfirmOrder(ctx, orderId)
	return err
}

// CreateDeliveryRequest converts echo context to params.
func (w *ServerInterfaceWrapper) CreateDeliveryRequest(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateDeliveryRequest(ctx, orderId)
	return err
}

// RejectOrder converts echo context to params.
func (w *ServerInterfaceWrapper) RejectOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.RejectOrder(ctx, orderId)
	return err
}

// UpdateOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.UpdateOrderStatus(ctx, orderId)
	return err
}

// GetOpenStallOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetOpenStallOrders(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "stallId" -------------
	var stallId openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "stallId", ctx.Param("stallId"), &stallId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter stallId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetOpenStallOrders(ctx, stallId)
	return err
}

// EchoRouter is an interface that wraps the methods of echo.Echo and echo.Group
// so that handlers can be registered on either.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths,
// so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/cart", wrapper.GetCart)
	router.POST(baseURL+"/cart/lines", wrapper.AddCartLine)
	router.DELETE(baseURL+"/cart/lines/:lineId", wrapper.RemoveCartLine)
	router.PATCH(baseURL+"/cart/lines/:lineId", wrapper.UpdateCartLine)
	router.POST(baseURL+"/delivery-requests/:requestId/assign", wrapper.AssignDeliveryPartner)
	router.POST(baseURL+"/delivery-requests/:requestId/cancel", wrapper.CancelDeliveryRequest)
	router.POST(baseURL+"/delivery-requests/:requestId/complete", wrapper.CompleteDeliveryRequest)
	router.POST(baseURL+"/orders/checkout", wrapper.Checkout)
	router.GET(baseURL+"/orders/:orderId", wrapper.GetOrder)
	router.GET(baseURL+"/orders/:orderId/confirmation", wrapper.GetConfirmationStatus)
	router.POST(baseURL+"/orders/:orderId/confirmation", wrapper.ConfirmOrder)
	router.POST(baseURL+"/orders/:orderId/delivery-requests", wrapper.CreateDeliveryRequest)
	router.POST(baseURL+"/orders/:orderId/reject", wrapper.RejectOrder)
	router.POST(baseURL+"/orders/:orderId/status", wrapper.UpdateOrderStatus)
	router.GET(baseURL+"/stalls/:stallId/orders/open", wrapper.GetOpenStallOrders)
}

//go:embed openapi.yml
var rawSpec []byte

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed OpenAPI document served by RegisterHandlers.
// The document is parsed once; callers must not modify the result.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swagger, swaggerErr = loader.LoadFromData(rawSpec)
		if swaggerErr != nil {
			swaggerErr = fmt.Errorf("error loading Swagger: %w", swaggerErr)
		}
	})
	return swagger, swaggerErr
}

// RawSpec returns the OpenAPI document as written.
func RawSpec() []byte {
	return rawSpec
}
