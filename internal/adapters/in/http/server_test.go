package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "iskxpress/internal/adapters/in/http"
	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/api/servers"
	"iskxpress/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	secret  = []byte("campus-secret")
	testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
)

type apiMocks struct {
	addCartLine           *MockAddCartLine
	checkout              *MockCheckout
	updateOrderStatus     *MockUpdateOrderStatus
	rejectOrder           *MockRejectOrder
	confirmOrder          *MockConfirmOrder
	assignDeliveryPartner *MockAssignDeliveryPartner
	getCart               *MockGetCart
	getOrder              *MockGetOrder
	getConfirmation       *MockGetConfirmationStatus
	getOpenStallOrders    *MockGetOpenStallOrders
}

func newAPI(t *testing.T) (*echo.Echo, apiMocks) {
	t.Helper()

	m := apiMocks{
		addCartLine:           &MockAddCartLine{},
		checkout:              &MockCheckout{},
		updateOrderStatus:     &MockUpdateOrderStatus{},
		rejectOrder:           &MockRejectOrder{},
		confirmOrder:          &MockConfirmOrder{},
		assignDeliveryPartner: &MockAssignDeliveryPartner{},
		getCart:               &MockGetCart{},
		getOrder:              &MockGetOrder{},
		getConfirmation:       &MockGetConfirmationStatus{},
		getOpenStallOrders:    &MockGetOpenStallOrders{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httpadapter.NewServer(httpadapter.Handlers{
		AddCartLine:           m.addCartLine,
		Checkout:              m.checkout,
		UpdateOrderStatus:     m.updateOrderStatus,
		RejectOrder:           m.rejectOrder,
		ConfirmOrder:          m.confirmOrder,
		AssignDeliveryPartner: m.assignDeliveryPartner,
		GetCart:               m.getCart,
		GetOrder:              m.getOrder,
		GetConfirmationStatus: m.getConfirmation,
		GetOpenStallOrders:    m.getOpenStallOrders,
	}, logger)

	e, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{JWTSecret: secret, Logger: logger})
	require.NoError(t, err)

	t.Cleanup(func() {
		m.addCartLine.AssertExpectations(t)
		m.checkout.AssertExpectations(t)
		m.updateOrderStatus.AssertExpectations(t)
		m.rejectOrder.AssertExpectations(t)
		m.confirmOrder.AssertExpectations(t)
		m.assignDeliveryPartner.AssertExpectations(t)
		m.getCart.AssertExpectations(t)
		m.getOrder.AssertExpectations(t)
		m.getConfirmation.AssertExpectations(t)
		m.getOpenStallOrders.AssertExpectations(t)
	})
	return e, m
}

func token(t *testing.T, actor kernel.Actor) string {
	t.Helper()
	signed, err := httpadapter.IssueToken(secret, actor, time.Hour, time.Now())
	require.NoError(t, err)
	return signed
}

func do(e *echo.Echo, method, path, bearer, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func buyerActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleUser)
	require.NoError(t, err)
	return a
}

func partnerActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleDeliveryPartner)
	require.NoError(t, err)
	return a
}

func vendorActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewVendorActor(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return a
}

func deliveryOrder(t *testing.T, buyerID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), buyerID, kernel.NewUUID(), order.Delivery,
		"Dorm 4, Room 12", "no onions", []*order.Item{item}, kernel.MustMoney("50.00"), testNow)
	require.NoError(t, err)
	return o
}

func Test_Health(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodGet, "/health", "", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func Test_APIRejectsMissingOrForeignTokens(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodGet, "/api/v1/cart", "", "")
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, nethttp.StatusUnauthorized, decode[servers.Error](t, rec).Code)

	foreign, err := httpadapter.IssueToken([]byte("another-secret"), buyerActor(t), time.Hour, time.Now())
	require.NoError(t, err)
	rec = do(e, nethttp.MethodGet, "/api/v1/cart", foreign, "")
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func Test_CartIsForBuyersOnly(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodGet, "/api/v1/cart", token(t, vendorActor(t)), "")

	assert.Equal(t, nethttp.StatusForbidden, rec.Code)
}

func Test_GetCartRendersLinesAndSubtotal(t *testing.T) {
	e, m := newAPI(t)
	buyer := buyerActor(t)
	lineID, productID, stallID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	m.getCart.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCartQuery) bool {
		return q.UserID().IsEqual(buyer.ID())
	})).Return(&queries.GetCartQueryResponse{
		Lines: []queries.CartLineView{{
			ID:          lineID,
			ProductID:   productID,
			ProductName: "Iced latte",
			StallID:     stallID,
			Quantity:    2,
			BasePrice:   kernel.MustMoney("100.00"),
			LineTotal:   kernel.MustMoney("200.00"),
			IsAvailable: true,
			AddedAt:     testNow,
		}},
		BaseSubtotal: kernel.MustMoney("200.00"),
	}, nil).Once()

	rec := do(e, nethttp.MethodGet, "/api/v1/cart", token(t, buyer), "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	got := decode[servers.Cart](t, rec)
	assert.Equal(t, "200.00", got.BaseSubtotal)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, lineID.Bytes(), got.Lines[0].Id)
	assert.Equal(t, "Iced latte", *got.Lines[0].ProductName)
	assert.Equal(t, "200.00", *got.Lines[0].LineTotal)
}

func Test_AddCartLine(t *testing.T) {
	e, m := newAPI(t)
	buyer := buyerActor(t)
	productID, stallID := kernel.NewUUID(), kernel.NewUUID()

	line, err := cart.NewLine(kernel.NewUUID(), buyer.ID(), productID, stallID, 2, testNow)
	require.NoError(t, err)
	m.addCartLine.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AddCartLineCommand) bool {
		return cmd.UserID().IsEqual(buyer.ID()) && cmd.ProductID().IsEqual(productID) && cmd.Quantity() == 2
	})).Return(line, nil).Once()

	rec := do(e, nethttp.MethodPost, "/api/v1/cart/lines", token(t, buyer),
		`{"productId":"`+productID.String()+`","quantity":2}`)

	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	got := decode[servers.CartLine](t, rec)
	assert.Equal(t, line.ID().Bytes(), got.Id)
	assert.Equal(t, stallID.Bytes(), got.StallId)
	assert.Equal(t, 2, got.Quantity)
}

func Test_AddCartLineRejectsZeroQuantity(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodPost, "/api/v1/cart/lines", token(t, buyerActor(t)),
		`{"productId":"`+kernel.NewUUID().String()+`","quantity":0}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func Test_Checkout(t *testing.T) {
	e, m := newAPI(t)
	buyer := buyerActor(t)
	lineA, lineB := kernel.NewUUID(), kernel.NewUUID()
	created := deliveryOrder(t, buyer.ID())

	m.checkout.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CheckoutCommand) bool {
		ids := cmd.LineIDs()
		return cmd.BuyerID().IsEqual(buyer.ID()) &&
			len(ids) == 2 && ids[0].IsEqual(lineA) && ids[1].IsEqual(lineB) &&
			cmd.FulfillmentMethod() == order.Delivery &&
			cmd.DeliveryAddress() == "Dorm 4, Room 12"
	})).Return(created, nil).Once()

	body := `{"lineIds":["` + lineA.String() + `","` + lineB.String() + `"],` +
		`"fulfillmentMethod":"Delivery","deliveryAddress":"Dorm 4, Room 12"}`
	rec := do(e, nethttp.MethodPost, "/api/v1/orders/checkout", token(t, buyer), body)

	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	got := decode[servers.Order](t, rec)
	assert.Equal(t, created.ID().Bytes(), got.Id)
	assert.Equal(t, "Pending", got.Status)
	assert.Equal(t, "270.00", got.TotalPrice)
	assert.Equal(t, "20.00", got.TotalCommissionFee)
	assert.Equal(t, "50.00", got.DeliveryFee)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "110.00", got.Items[0].PriceEach)
	assert.Nil(t, got.DeliveryPartnerId)
}

func Test_CheckoutRequiresLines(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodPost, "/api/v1/orders/checkout", token(t, buyerActor(t)),
		`{"lineIds":[],"fulfillmentMethod":"Pickup"}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func Test_CheckoutPassesDomainValidationThrough(t *testing.T) {
	e, m := newAPI(t)
	m.checkout.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewValueIsInvalidError("cartLineIds")).Once()

	rec := do(e, nethttp.MethodPost, "/api/v1/orders/checkout", token(t, buyerActor(t)),
		`{"lineIds":["`+kernel.NewUUID().String()+`"],"fulfillmentMethod":"Pickup"}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[servers.Error](t, rec).Message, "cartLineIds")
}

func Test_UpdateOrderStatus(t *testing.T) {
	e, m := newAPI(t)
	vendor := vendorActor(t)
	orderID := kernel.NewUUID()
	updated := deliveryOrder(t, kernel.NewUUID())

	m.updateOrderStatus.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
		return cmd.OrderID().IsEqual(orderID) && cmd.Target() == order.ToPrepare && sameActor(cmd.Actor(), vendor)
	})).Return(updated, nil).Once()

	rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", token(t, vendor), `{"status":"ToPrepare"}`)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, updated.ID().Bytes(), decode[servers.Order](t, rec).Id)
}

func Test_UpdateOrderStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", errs.NewInvalidTransitionError("order", "Pending", "ToReceive"), nethttp.StatusConflict},
		{"stale version", errs.NewConflictError("order", "o-1"), nethttp.StatusConflict},
		{"foreign stall", errs.NewPermissionError("Vendor", "accept the order"), nethttp.StatusForbidden},
		{"unknown order", errs.NewObjectNotFoundError("orderID", "o-1"), nethttp.StatusNotFound},
		{"storage failure", errors.New("connection reset"), nethttp.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, m := newAPI(t)
			m.updateOrderStatus.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status",
				token(t, vendorActor(t)), `{"status":"ToDeliver"}`)

			assert.Equal(t, tt.want, rec.Code)
			got := decode[servers.Error](t, rec)
			assert.Equal(t, tt.want, got.Code)
			if tt.want == nethttp.StatusInternalServerError {
				assert.NotContains(t, got.Message, "connection reset")
			}
		})
	}
}

func Test_UpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/status",
		token(t, vendorActor(t)), `{"status":"Shipped"}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func Test_MalformedOrderIDIsBadRequest(t *testing.T) {
	e, _ := newAPI(t)

	rec := do(e, nethttp.MethodGet, "/api/v1/orders/not-a-uuid", token(t, buyerActor(t)), "")

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func Test_RejectOrder(t *testing.T) {
	e, m := newAPI(t)
	vendor := vendorActor(t)
	rejected := deliveryOrder(t, kernel.NewUUID())

	m.rejectOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RejectOrderCommand) bool {
		return cmd.Reason() == "out of rice" && sameActor(cmd.Actor(), vendor)
	})).Return(rejected, nil).Once()

	rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+rejected.ID().String()+"/reject", token(t, vendor), `{"reason":"out of rice"}`)

	assert.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
}

func Test_AssignDeliveryPartner(t *testing.T) {
	t.Run("partner takes the request", func(t *testing.T) {
		e, m := newAPI(t)
		partner := partnerActor(t)
		request, err := delivery.NewRequest(kernel.NewUUID(), kernel.NewUUID(), testNow)
		require.NoError(t, err)
		require.NoError(t, request.Assign(partner.ID(), testNow.Add(time.Minute)))

		m.assignDeliveryPartner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignDeliveryPartnerCommand) bool {
			return cmd.RequestID().IsEqual(request.ID()) && cmd.PartnerID().IsEqual(partner.ID())
		})).Return(request, nil).Once()

		rec := do(e, nethttp.MethodPost, "/api/v1/delivery-requests/"+request.ID().String()+"/assign",
			token(t, partner), `{"partnerId":"`+partner.ID().String()+`"}`)

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		got := decode[servers.DeliveryRequest](t, rec)
		assert.Equal(t, servers.DeliveryRequestStatusAssigned, got.Status)
		require.NotNil(t, got.AssignedDeliveryPartnerId)
		assert.Equal(t, partner.ID().Bytes(), *got.AssignedDeliveryPartnerId)
	})

	t.Run("partner cannot assign someone else", func(t *testing.T) {
		e, _ := newAPI(t)

		rec := do(e, nethttp.MethodPost, "/api/v1/delivery-requests/"+kernel.NewUUID().String()+"/assign",
			token(t, partnerActor(t)), `{"partnerId":"`+kernel.NewUUID().String()+`"}`)

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	})

	t.Run("buyers cannot assign", func(t *testing.T) {
		e, _ := newAPI(t)

		rec := do(e, nethttp.MethodPost, "/api/v1/delivery-requests/"+kernel.NewUUID().String()+"/assign",
			token(t, buyerActor(t)), `{"partnerId":"`+kernel.NewUUID().String()+`"}`)

		assert.Equal(t, nethttp.StatusForbidden, rec.Code)
	})
}

func Test_ConfirmOrder(t *testing.T) {
	t.Run("within the window", func(t *testing.T) {
		e, m := newAPI(t)
		buyer := buyerActor(t)
		orderID := kernel.NewUUID()
		c, err := confirmation.New(kernel.NewUUID(), orderID, time.Now().UTC(), 5*time.Minute)
		require.NoError(t, err)
		require.NoError(t, c.Confirm(time.Now().UTC()))

		m.confirmOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmOrderCommand) bool {
			return cmd.OrderID().IsEqual(orderID) && sameActor(cmd.Actor(), buyer)
		})).Return(c, nil).Once()

		rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirmation", token(t, buyer), "")

		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
		got := decode[servers.ConfirmationStatus](t, rec)
		assert.True(t, got.IsConfirmed)
		assert.False(t, got.IsAutoConfirmed)
		assert.NotNil(t, got.ConfirmedAt)
	})

	t.Run("after the deadline", func(t *testing.T) {
		e, m := newAPI(t)
		m.confirmOrder.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewExpiredError("order confirmation", testNow)).Once()

		rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/confirmation", token(t, buyerActor(t)), "")

		assert.Equal(t, nethttp.StatusGone, rec.Code)
	})

	t.Run("already finalized", func(t *testing.T) {
		e, m := newAPI(t)
		m.confirmOrder.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewInvalidTransitionError("order confirmation", "AutoConfirmed", "Confirmed")).Once()

		rec := do(e, nethttp.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/confirmation", token(t, buyerActor(t)), "")

		assert.Equal(t, nethttp.StatusConflict, rec.Code)
	})
}

func Test_GetConfirmationStatus(t *testing.T) {
	e, m := newAPI(t)
	buyer := buyerActor(t)
	orderID := kernel.NewUUID()

	m.getConfirmation.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetConfirmationStatusQuery) bool {
		return q.OrderID().IsEqual(orderID) && !q.Now().IsZero()
	})).Return(&queries.GetConfirmationStatusQueryResponse{
		ConfirmationID: kernel.NewUUID(),
		OrderID:        orderID,
		CreatedAt:      testNow,
		Deadline:       testNow.Add(5 * time.Minute),
		Remaining:      2*time.Minute + 30*time.Second,
	}, nil).Once()

	rec := do(e, nethttp.MethodGet, "/api/v1/orders/"+orderID.String()+"/confirmation", token(t, buyer), "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	got := decode[servers.ConfirmationStatus](t, rec)
	assert.Equal(t, int64(150), got.RemainingSeconds)
	assert.False(t, got.IsExpired)
	assert.Equal(t, orderID.Bytes(), got.OrderId)
}

func Test_GetOrderHiddenFromActorIsNotFound(t *testing.T) {
	e, m := newAPI(t)
	m.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("orderID", "o-1")).Once()

	rec := do(e, nethttp.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), token(t, buyerActor(t)), "")

	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func Test_GetOpenStallOrders(t *testing.T) {
	e, m := newAPI(t)
	vendor := vendorActor(t)
	stallID := *vendor.StallID()
	first, second := kernel.NewUUID(), kernel.NewUUID()

	m.getOpenStallOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOpenStallOrdersQuery) bool {
		return q.StallID().IsEqual(stallID)
	})).Return([]queries.GetOpenStallOrdersQueryResponse{
		{ID: first, UserID: kernel.NewUUID(), Status: "Pending", FulfillmentMethod: "Pickup",
			TotalPrice: kernel.MustMoney("220.00"), ItemCount: 1, CreatedAt: testNow},
		{ID: second, UserID: kernel.NewUUID(), Status: "ToPrepare", FulfillmentMethod: "Delivery",
			TotalPrice: kernel.MustMoney("270.00"), ItemCount: 2, CreatedAt: testNow.Add(time.Minute)},
	}, nil).Once()

	rec := do(e, nethttp.MethodGet, "/api/v1/stalls/"+stallID.String()+"/orders/open", token(t, vendor), "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	got := decode[[]servers.OrderSummary](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, first.Bytes(), got[0].Id)
	assert.Equal(t, "270.00", got[1].TotalPrice)
	assert.Equal(t, 2, got[1].ItemCount)
}

func sameActor(a, b kernel.Actor) bool {
	return a.ID().IsEqual(b.ID()) && a.Role() == b.Role() && kernel.UUIDPtrEqual(a.StallID(), b.StallID())
}
