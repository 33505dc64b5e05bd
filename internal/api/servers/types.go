// Package servers holds the HTTP contract of the order lifecycle API: request and
// response models, the ServerInterface the adapter implements and the route wiring.
// The layout mirrors oapi-codegen's echo server output for openapi.yml, but the
// package is maintained by hand: keep types.go and server.go in step with the
// document when an operation changes.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for CheckoutRequestFulfillmentMethod.
const (
	Delivery CheckoutRequestFulfillmentMethod = "Delivery"
	Pickup   CheckoutRequestFulfillmentMethod = "Pickup"
)

// Defines values for DeliveryRequestStatus.
const (
	DeliveryRequestStatusAssigned  DeliveryRequestStatus = "Assigned"
	DeliveryRequestStatusCancelled DeliveryRequestStatus = "Cancelled"
	DeliveryRequestStatusCompleted DeliveryRequestStatus = "Completed"
	DeliveryRequestStatusPending   DeliveryRequestStatus = "Pending"
)

// Defines values for StatusChangeStatus.
const (
	Accomplished StatusChangeStatus = "Accomplished"
	Pending      StatusChangeStatus = "Pending"
	Rejected     StatusChangeStatus = "Rejected"
	ToDeliver    StatusChangeStatus = "ToDeliver"
	ToPrepare    StatusChangeStatus = "ToPrepare"
	ToReceive    StatusChangeStatus = "ToReceive"
)

// Assignment defines model for Assignment.
type Assignment struct {
	PartnerId openapi_types.UUID `json:"partnerId" validate:"required"`
}

// Cart defines model for Cart.
type Cart struct {
	BaseSubtotal string     `json:"baseSubtotal"`
	Lines        []CartLine `json:"lines"`
}

// CartLine defines model for CartLine.
type CartLine struct {
	BasePrice   *string            `json:"basePrice,omitempty"`
	Id          openapi_types.UUID `json:"id"`
	IsAvailable *bool              `json:"isAvailable,omitempty"`
	LineTotal   *string            `json:"lineTotal,omitempty"`
	ProductId   openapi_types.UUID `json:"productId"`
	ProductName *string            `json:"productName,omitempty"`
	Quantity    int                `json:"quantity"`
	StallId     openapi_types.UUID `json:"stallId"`
}

// CartLineQuantity defines model for CartLineQuantity.
type CartLineQuantity struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// CheckoutRequest defines model for CheckoutRequest.
type CheckoutRequest struct {
	DeliveryAddress   *string                          `json:"deliveryAddress,omitempty" validate:"omitempty,max=500"`
	FulfillmentMethod CheckoutRequestFulfillmentMethod `json:"fulfillmentMethod" validate:"required,oneof=Delivery Pickup"`
	LineIds           []openapi_types.UUID             `json:"lineIds" validate:"required,min=1,dive,required"`
	Notes             *string                          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CheckoutRequestFulfillmentMethod defines model for CheckoutRequest.FulfillmentMethod.
type CheckoutRequestFulfillmentMethod string

// ConfirmationStatus defines model for ConfirmationStatus.
type ConfirmationStatus struct {
	AutoConfirmedAt  *time.Time         `json:"autoConfirmedAt,omitempty"`
	ConfirmedAt      *time.Time         `json:"confirmedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	Deadline         time.Time          `json:"deadline"`
	Id               openapi_types.UUID `json:"id"`
	IsAutoConfirmed  bool               `json:"isAutoConfirmed"`
	IsConfirmed      bool               `json:"isConfirmed"`
	IsExpired        bool               `json:"isExpired"`
	OrderId          openapi_types.UUID `json:"orderId"`
	RemainingSeconds int64              `json:"remainingSeconds"`
}

// DeliveryRequest defines model for DeliveryRequest.
type DeliveryRequest struct {
	AssignedAt                *time.Time            `json:"assignedAt,omitempty"`
	AssignedDeliveryPartnerId *openapi_types.UUID   `json:"assignedDeliveryPartnerId,omitempty"`
	CancelledAt               *time.Time            `json:"cancelledAt,omitempty"`
	CompletedAt               *time.Time            `json:"completedAt,omitempty"`
	CreatedAt                 time.Time             `json:"createdAt"`
	Id                        openapi_types.UUID    `json:"id"`
	OrderId                   openapi_types.UUID    `json:"orderId"`
	Status                    DeliveryRequestStatus `json:"status"`
}

// DeliveryRequestStatus defines model for DeliveryRequest.Status.
type DeliveryRequestStatus string

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewCartLine defines model for NewCartLine.
type NewCartLine struct {
	ProductId openapi_types.UUID `json:"productId" validate:"required"`
	Quantity  int                `json:"quantity" validate:"min=1"`
}

// Order defines model for Order.
type Order struct {
	CreatedAt          time.Time           `json:"createdAt"`
	DeliveryAddress    *string             `json:"deliveryAddress,omitempty"`
	DeliveryFee        string              `json:"deliveryFee"`
	DeliveryPartnerId  *openapi_types.UUID `json:"deliveryPartnerId,omitempty"`
	FulfillmentMethod  string              `json:"fulfillmentMethod"`
	Id                 openapi_types.UUID  `json:"id"`
	Items              []OrderItem         `json:"items"`
	Notes              *string             `json:"notes,omitempty"`
	RejectionReason    *string             `json:"rejectionReason,omitempty"`
	StallId            openapi_types.UUID  `json:"stallId"`
	Status             string              `json:"status"`
	TotalCommissionFee string              `json:"totalCommissionFee"`
	TotalPrice         string              `json:"totalPrice"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	UserId             openapi_types.UUID  `json:"userId"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	CommissionFee string             `json:"commissionFee"`
	Id            openapi_types.UUID `json:"id"`
	PriceEach     string             `json:"priceEach"`
	ProductId     openapi_types.UUID `json:"productId"`
	ProductName   *string            `json:"productName,omitempty"`
	Quantity      int                `json:"quantity"`
}

// OrderSummary defines model for OrderSummary.
type OrderSummary struct {
	CreatedAt         time.Time          `json:"createdAt"`
	FulfillmentMethod string             `json:"fulfillmentMethod"`
	Id                openapi_types.UUID `json:"id"`
	ItemCount         int                `json:"itemCount"`
	Status            string             `json:"status"`
	TotalPrice        string             `json:"totalPrice"`
	UserId            openapi_types.UUID `json:"userId"`
}

// Rejection defines model for Rejection.
type Rejection struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// StatusChange defines model for StatusChange.
type StatusChange struct {
	Status StatusChangeStatus `json:"status" validate:"required"`
}

// StatusChangeStatus defines model for StatusChange.Status.
type StatusChangeStatus string

// AddCartLineJSONRequestBody defines body for AddCartLine for application/json ContentType.
type AddCartLineJSONRequestBody = NewCartLine

// UpdateCartLineJSONRequestBody defines body for UpdateCartLine for application/json ContentType.
type UpdateCartLineJSONRequestBody = CartLineQuantity

// CheckoutJSONRequestBody defines body for Checkout for application/json ContentType.
type CheckoutJSONRequestBody = CheckoutRequest

// RejectOrderJSONRequestBody defines body for RejectOrder for application/json ContentType.
type RejectOrderJSONRequestBody = Rejection

// UpdateOrderStatusJSONRequestBody defines body for UpdateOrderStatus for application/json ContentType.
type UpdateOrderStatusJSONRequestBody = StatusChange

// AssignDeliveryPartnerJSONRequestBody defines body for AssignDeliveryPartner for application/json ContentType.
type AssignDeliveryPartnerJSONRequestBody = Assignment
