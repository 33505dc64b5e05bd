package commands_test

import (
	"testing"
	"time"

	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type orderFixture struct {
	buyerID   kernel.UUID
	stallID   kernel.UUID
	vendorID  kernel.UUID
	partnerID kernel.UUID
}

func newOrderFixture() orderFixture {
	return orderFixture{
		buyerID:   kernel.NewUUID(),
		stallID:   kernel.NewUUID(),
		vendorID:  kernel.NewUUID(),
		partnerID: kernel.NewUUID(),
	}
}

func (f orderFixture) buyer(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(f.buyerID, kernel.RoleUser)
	require.NoError(t, err)
	return a
}

func (f orderFixture) vendor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewVendorActor(f.vendorID, f.stallID)
	require.NoError(t, err)
	return a
}

func (f orderFixture) partner(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(f.partnerID, kernel.RoleDeliveryPartner)
	require.NoError(t, err)
	return a
}

// order restores an order with one line of 2 x 110.00 (commission 10.00 each).
func (f orderFixture) order(t *testing.T, method order.FulfillmentMethod, status order.Status, partnerID *kernel.UUID) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
	require.NoError(t, err)

	fee, total, address := kernel.ZeroMoney, kernel.MustMoney("220.00"), ""
	if method == order.Delivery {
		fee, total, address = kernel.MustMoney("50.00"), kernel.MustMoney("270.00"), "Dorm 4, Room 12"
	}

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                 kernel.NewUUID(),
		UserID:             f.buyerID,
		StallID:            f.stallID,
		Status:             status,
		FulfillmentMethod:  method,
		DeliveryAddress:    address,
		DeliveryPartnerID:  partnerID,
		Items:              []*order.Item{item},
		DeliveryFee:        fee,
		TotalPrice:         total,
		TotalCommissionFee: kernel.MustMoney("20.00"),
		CreatedAt:          testNow.Add(-time.Hour),
		UpdatedAt:          testNow.Add(-time.Hour),
		Version:            3,
	})
	require.NoError(t, err)
	return o
}

func pendingRequest(t *testing.T, orderID kernel.UUID) *delivery.Request {
	t.Helper()
	r, err := delivery.NewRequest(kernel.NewUUID(), orderID, testNow.Add(-time.Hour))
	require.NoError(t, err)
	return r
}

func assignedRequest(t *testing.T, orderID, partnerID kernel.UUID) *delivery.Request {
	t.Helper()
	r := pendingRequest(t, orderID)
	require.NoError(t, r.Assign(partnerID, testNow.Add(-30*time.Minute)))
	return r
}

func openConfirmation(t *testing.T, orderID kernel.UUID, createdAt time.Time) *confirmation.Confirmation {
	t.Helper()
	c, err := confirmation.New(kernel.NewUUID(), orderID, createdAt, confirmation.DefaultWindow)
	require.NoError(t, err)
	return c
}
