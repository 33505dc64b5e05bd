package queries_test

import (
	"context"
	"testing"
	"time"

	"iskxpress/internal/adapters/out/postgres/cartrepo"
	"iskxpress/internal/adapters/out/postgres/confirmationrepo"
	"iskxpress/internal/adapters/out/postgres/orderrepo"
	"iskxpress/internal/adapters/out/postgres/pgtest"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type discardTracker struct{}

func (discardTracker) TrackAggregate(kernel.UUID, any) {}

type QueryHandlersTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	stall   pgtest.Stall
	buyerID kernel.UUID
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Stop(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Reset())

	var err error
	suite.stall, err = suite.pg.SeedStall("100.00")
	suite.Require().NoError(err)
	suite.buyerID, err = suite.pg.SeedUser(false)
	suite.Require().NoError(err)
}

func (suite *QueryHandlersTestSuite) storeOrder(status order.Status, createdAt time.Time, partnerID *kernel.UUID) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), suite.stall.ProductID, 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                 kernel.NewUUID(),
		UserID:             suite.buyerID,
		StallID:            suite.stall.StallID,
		Status:             status,
		FulfillmentMethod:  order.Delivery,
		DeliveryAddress:    "Dorm 4, Room 12",
		DeliveryPartnerID:  partnerID,
		Items:              []*order.Item{item},
		DeliveryFee:        kernel.MustMoney("50.00"),
		TotalPrice:         kernel.MustMoney("270.00"),
		TotalCommissionFee: kernel.MustMoney("20.00"),
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
		Version:            1,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.pg.DB, discardTracker{}).Add(context.Background(), o))
	return o
}

// corrupt overwrites one enum column of a stored order with a value no release wrote.
func (suite *QueryHandlersTestSuite) corrupt(orderID kernel.UUID, column, value string) {
	suite.Require().NoError(suite.pg.DB.Exec(`UPDATE orders SET `+column+` = ? WHERE id = ?`, value, orderID.Bytes()).Error)
}

func (suite *QueryHandlersTestSuite) buyer() kernel.Actor {
	a, err := kernel.NewActor(suite.buyerID, kernel.RoleUser)
	suite.Require().NoError(err)
	return a
}

func (suite *QueryHandlersTestSuite) vendor() kernel.Actor {
	a, err := kernel.NewVendorActor(suite.stall.VendorID, suite.stall.StallID)
	suite.Require().NoError(err)
	return a
}

func (suite *QueryHandlersTestSuite) stranger(role kernel.Role) kernel.Actor {
	if role == kernel.RoleVendor {
		a, err := kernel.NewVendorActor(kernel.NewUUID(), kernel.NewUUID())
		suite.Require().NoError(err)
		return a
	}
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return a
}

func (suite *QueryHandlersTestSuite) TestGetOrder_ReturnsItemsWithProductNames() {
	o := suite.storeOrder(order.Pending, now, nil)
	query, err := queries.NewGetOrderQuery(o.ID(), suite.buyer())
	suite.Require().NoError(err)

	resp, err := queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.True(resp.ID.IsEqual(o.ID()))
	suite.Equal("Pending", resp.Status)
	suite.Equal("Delivery", resp.FulfillmentMethod)
	suite.Equal("270.00", resp.TotalPrice.String())
	suite.Equal("50.00", resp.DeliveryFee.String())
	suite.Nil(resp.DeliveryPartnerID)
	suite.True(resp.CreatedAt.Equal(now))
	suite.Require().Len(resp.Items, 1)
	suite.Equal("Iced latte", resp.Items[0].ProductName)
	suite.Equal(2, resp.Items[0].Quantity)
	suite.Equal("110.00", resp.Items[0].PriceEach.String())
}

func (suite *QueryHandlersTestSuite) TestGetOrder_VisibleOnlyToItsParties() {
	partnerID, err := suite.pg.SeedPartner(true)
	suite.Require().NoError(err)
	o := suite.storeOrder(order.ToDeliver, now, &partnerID)
	partner, err := kernel.NewActor(partnerID, kernel.RoleDeliveryPartner)
	suite.Require().NoError(err)
	handler := queries.NewGetOrderQueryHandler(suite.pg.DB)

	for _, actor := range []kernel.Actor{suite.buyer(), suite.vendor(), partner, kernel.SystemActor()} {
		query, qErr := queries.NewGetOrderQuery(o.ID(), actor)
		suite.Require().NoError(qErr)
		_, err = handler.Handle(context.Background(), query)
		suite.NoError(err, actor.String())
	}

	for _, role := range []kernel.Role{kernel.RoleUser, kernel.RoleVendor, kernel.RoleDeliveryPartner} {
		query, qErr := queries.NewGetOrderQuery(o.ID(), suite.stranger(role))
		suite.Require().NoError(qErr)
		_, err = handler.Handle(context.Background(), query)
		suite.ErrorIs(err, errs.ErrObjectNotFound, string(role))
	}
}

func (suite *QueryHandlersTestSuite) TestGetOrder_UnknownOrderIsNotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), kernel.SystemActor())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestGetOrder_CorruptStatusIsAnError() {
	o := suite.storeOrder(order.Pending, now, nil)
	suite.corrupt(o.ID(), "status", "Lost")

	query, err := queries.NewGetOrderQuery(o.ID(), kernel.SystemActor())
	suite.Require().NoError(err)
	result, err := queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrValidation)
	suite.Nil(result)
}

func (suite *QueryHandlersTestSuite) TestGetOrder_CorruptFulfillmentMethodIsAnError() {
	o := suite.storeOrder(order.Pending, now, nil)
	suite.corrupt(o.ID(), "fulfillment_method", "Drone")

	query, err := queries.NewGetOrderQuery(o.ID(), kernel.SystemActor())
	suite.Require().NoError(err)
	_, err = queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrValidation)
}

func (suite *QueryHandlersTestSuite) TestGetConfirmationStatus_ReportsRemainingTime() {
	o := suite.storeOrder(order.ToReceive, now, nil)
	c, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	suite.Require().NoError(confirmationrepo.NewGormConfirmationRepository(suite.pg.DB).Add(context.Background(), c))
	handler := queries.NewGetConfirmationStatusQueryHandler(suite.pg.DB)

	query, err := queries.NewGetConfirmationStatusQuery(o.ID(), suite.buyer(), now.Add(time.Hour))
	suite.Require().NoError(err)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(confirmation.DefaultWindow-time.Hour, resp.Remaining)
	suite.False(resp.IsExpired)
	suite.False(resp.IsConfirmed)
	suite.True(resp.Deadline.Equal(now.Add(confirmation.DefaultWindow)))

	query, err = queries.NewGetConfirmationStatusQuery(o.ID(), suite.vendor(), now.Add(confirmation.DefaultWindow+time.Minute))
	suite.Require().NoError(err)
	resp, err = handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Zero(resp.Remaining)
	suite.True(resp.IsExpired)
}

func (suite *QueryHandlersTestSuite) TestGetConfirmationStatus_FinalizedIsNotExpired() {
	o := suite.storeOrder(order.Accomplished, now, nil)
	c, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	repo := confirmationrepo.NewGormConfirmationRepository(suite.pg.DB)
	suite.Require().NoError(repo.Add(context.Background(), c))
	suite.Require().NoError(c.Confirm(now.Add(time.Hour)))
	suite.Require().NoError(repo.Finalize(context.Background(), c))

	query, err := queries.NewGetConfirmationStatusQuery(o.ID(), suite.buyer(), now.Add(2*confirmation.DefaultWindow))
	suite.Require().NoError(err)
	resp, err := queries.NewGetConfirmationStatusQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.True(resp.IsConfirmed)
	suite.Require().NotNil(resp.ConfirmedAt)
	suite.False(resp.IsExpired)
}

func (suite *QueryHandlersTestSuite) TestGetConfirmationStatus_WithoutConfirmationIsNotFound() {
	o := suite.storeOrder(order.ToDeliver, now, nil)
	query, err := queries.NewGetConfirmationStatusQuery(o.ID(), suite.buyer(), now)
	suite.Require().NoError(err)

	_, err = queries.NewGetConfirmationStatusQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestGetOpenStallOrders_SkipsFinishedOrdersOldestFirst() {
	second := suite.storeOrder(order.ToPrepare, now.Add(time.Minute), nil)
	first := suite.storeOrder(order.Pending, now, nil)
	suite.storeOrder(order.Accomplished, now, nil)
	suite.storeOrder(order.Rejected, now, nil)

	query, err := queries.NewGetOpenStallOrdersQuery(suite.stall.StallID, suite.vendor())
	suite.Require().NoError(err)
	result, err := queries.NewGetOpenStallOrdersQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(first.ID()))
	suite.True(result[1].ID.IsEqual(second.ID()))
	suite.Equal(1, result[0].ItemCount)
	suite.Equal("270.00", result[0].TotalPrice.String())
}

func (suite *QueryHandlersTestSuite) TestGetOpenStallOrders_CorruptStatusIsAnError() {
	suite.storeOrder(order.Pending, now, nil)
	broken := suite.storeOrder(order.ToPrepare, now.Add(time.Minute), nil)
	suite.corrupt(broken.ID(), "status", "Cooking")

	query, err := queries.NewGetOpenStallOrdersQuery(suite.stall.StallID, suite.vendor())
	suite.Require().NoError(err)
	result, err := queries.NewGetOpenStallOrdersQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrValidation)
	suite.Nil(result)
}

func (suite *QueryHandlersTestSuite) TestGetOpenStallOrders_OtherVendorIsDenied() {
	query, err := queries.NewGetOpenStallOrdersQuery(suite.stall.StallID, suite.stranger(kernel.RoleVendor))
	suite.Require().NoError(err)

	result, err := queries.NewGetOpenStallOrdersQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrPermissionDenied)
	suite.Nil(result)
}

func (suite *QueryHandlersTestSuite) TestGetOpenStallOrders_EmptyStallReturnsEmptySlice() {
	query, err := queries.NewGetOpenStallOrdersQuery(suite.stall.StallID, kernel.SystemActor())
	suite.Require().NoError(err)

	result, err := queries.NewGetOpenStallOrdersQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *QueryHandlersTestSuite) TestGetCart_ListsLinesAtBasePrice() {
	ctx := context.Background()
	secondProduct, err := suite.pg.SeedProduct(suite.stall.StallID, "35.50", false)
	suite.Require().NoError(err)
	repo := cartrepo.NewGormCartRepository(suite.pg.DB)

	latte, err := cart.NewLine(kernel.NewUUID(), suite.buyerID, suite.stall.ProductID, suite.stall.StallID, 2, now)
	suite.Require().NoError(err)
	bread, err := cart.NewLine(kernel.NewUUID(), suite.buyerID, secondProduct, suite.stall.StallID, 3, now.Add(time.Second))
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, latte))
	suite.Require().NoError(repo.Add(ctx, bread))

	query, err := queries.NewGetCartQuery(suite.buyerID)
	suite.Require().NoError(err)
	resp, err := queries.NewGetCartQueryHandler(suite.pg.DB).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, 2)
	suite.True(resp.Lines[0].ID.IsEqual(latte.ID()))
	suite.Equal("200.00", resp.Lines[0].LineTotal.String())
	suite.True(resp.Lines[0].IsAvailable)
	suite.Equal("106.50", resp.Lines[1].LineTotal.String())
	suite.False(resp.Lines[1].IsAvailable)
	suite.Equal("306.50", resp.BaseSubtotal.String())
}

func (suite *QueryHandlersTestSuite) TestGetCart_EmptyCart() {
	query, err := queries.NewGetCartQuery(suite.buyerID)
	suite.Require().NoError(err)

	resp, err := queries.NewGetCartQueryHandler(suite.pg.DB).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(resp.Lines)
	suite.True(resp.BaseSubtotal.IsZero())
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
