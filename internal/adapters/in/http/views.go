package http

import (
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/api/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toOrder(o *order.Order) servers.Order {
	items := make([]servers.OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, servers.OrderItem{
			Id:            item.ID().Bytes(),
			ProductId:     item.ProductID().Bytes(),
			Quantity:      item.Quantity(),
			PriceEach:     item.PriceEach().String(),
			CommissionFee: item.CommissionFee().String(),
		})
	}

	return servers.Order{
		Id:                 o.ID().Bytes(),
		UserId:             o.UserID().Bytes(),
		StallId:            o.StallID().Bytes(),
		Status:             o.Status().String(),
		FulfillmentMethod:  o.FulfillmentMethod().String(),
		DeliveryAddress:    optional(o.DeliveryAddress()),
		Notes:              optional(o.Notes()),
		DeliveryPartnerId:  optionalID(o.DeliveryPartnerID()),
		DeliveryFee:        o.DeliveryFee().String(),
		TotalPrice:         o.TotalPrice().String(),
		TotalCommissionFee: o.TotalCommissionFee().String(),
		RejectionReason:    optional(o.RejectionReason()),
		Items:              items,
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func toOrderView(v *queries.GetOrderQueryResponse) servers.Order {
	items := make([]servers.OrderItem, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, servers.OrderItem{
			Id:            item.ID.Bytes(),
			ProductId:     item.ProductID.Bytes(),
			ProductName:   optional(item.ProductName),
			Quantity:      item.Quantity,
			PriceEach:     item.PriceEach.String(),
			CommissionFee: item.CommissionFee.String(),
		})
	}

	return servers.Order{
		Id:                 v.ID.Bytes(),
		UserId:             v.UserID.Bytes(),
		StallId:            v.StallID.Bytes(),
		Status:             v.Status,
		FulfillmentMethod:  v.FulfillmentMethod,
		DeliveryAddress:    optional(v.DeliveryAddress),
		Notes:              optional(v.Notes),
		DeliveryPartnerId:  optionalID(v.DeliveryPartnerID),
		DeliveryFee:        v.DeliveryFee.String(),
		TotalPrice:         v.TotalPrice.String(),
		TotalCommissionFee: v.TotalCommissionFee.String(),
		RejectionReason:    optional(v.RejectionReason),
		Items:              items,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func toCart(v *queries.GetCartQueryResponse) servers.Cart {
	lines := make([]servers.CartLine, 0, len(v.Lines))
	for _, line := range v.Lines {
		basePrice := line.BasePrice.String()
		lineTotal := line.LineTotal.String()
		available := line.IsAvailable
		lines = append(lines, servers.CartLine{
			Id:          line.ID.Bytes(),
			ProductId:   line.ProductID.Bytes(),
			ProductName: optional(line.ProductName),
			StallId:     line.StallID.Bytes(),
			Quantity:    line.Quantity,
			BasePrice:   &basePrice,
			LineTotal:   &lineTotal,
			IsAvailable: &available,
		})
	}
	return servers.Cart{
		Lines:        lines,
		BaseSubtotal: v.BaseSubtotal.String(),
	}
}

func toDeliveryRequest(r *delivery.Request) servers.DeliveryRequest {
	return servers.DeliveryRequest{
		Id:                        r.ID().Bytes(),
		OrderId:                   r.OrderID().Bytes(),
		AssignedDeliveryPartnerId: optionalID(r.PartnerID()),
		Status:                    servers.DeliveryRequestStatus(r.Status().String()),
		CreatedAt:                 r.CreatedAt(),
		AssignedAt:                r.AssignedAt(),
		CompletedAt:               r.CompletedAt(),
		CancelledAt:               r.CancelledAt(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	b := id.Bytes()
	return &b
}
