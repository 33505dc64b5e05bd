package postgres_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	postgresadapter "iskxpress/internal/adapters/out/postgres"
	"iskxpress/internal/adapters/out/postgres/pgtest"
	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/domain/model/cart"
	"iskxpress/internal/core/domain/model/confirmation"
	"iskxpress/internal/core/domain/model/delivery"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/model/order"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type confirmationUoWs struct {
	factory *postgresadapter.GormUnitOfWorkFactory
}

func (u confirmationUoWs) Create() commands.ConfirmationUoW {
	return u.factory.CreateGorm()
}

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory *postgresadapter.GormUnitOfWorkFactory
	stall   pgtest.Stall
	buyerID kernel.UUID
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Reset())

	var err error
	suite.stall, err = suite.pg.SeedStall("100.00")
	suite.Require().NoError(err)
	suite.buyerID, err = suite.pg.SeedUser(false)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Stop(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(method order.FulfillmentMethod) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), suite.stall.ProductID, 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
	suite.Require().NoError(err)

	fee, address := kernel.ZeroMoney, ""
	if method == order.Delivery {
		fee, address = kernel.MustMoney("50.00"), "Dorm 4, Room 12"
	}
	o, err := order.NewOrder(kernel.NewUUID(), suite.buyerID, suite.stall.StallID, method, address, "no ice",
		[]*order.Item{item}, fee, now)
	suite.Require().NoError(err)
	return o
}

// addOrder stores o in its own transaction and reloads it.
func (suite *UnitOfWorkIntegrationTestSuite) addOrder(o *order.Order) *order.Order {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	return stored
}

// receivableOrder stores a Pickup order already handed over to the buyer.
func (suite *UnitOfWorkIntegrationTestSuite) receivableOrder() *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), suite.stall.ProductID, 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                 kernel.NewUUID(),
		UserID:             suite.buyerID,
		StallID:            suite.stall.StallID,
		Status:             order.ToReceive,
		FulfillmentMethod:  order.Pickup,
		Items:              []*order.Item{item},
		DeliveryFee:        kernel.ZeroMoney,
		TotalPrice:         kernel.MustMoney("220.00"),
		TotalCommissionFee: kernel.MustMoney("20.00"),
		CreatedAt:          now.Add(-time.Hour),
		UpdatedAt:          now.Add(-time.Hour),
		Version:            3,
	})
	suite.Require().NoError(err)
	return suite.addOrder(o)
}

func (suite *UnitOfWorkIntegrationTestSuite) outboxTypes(aggregateID kernel.UUID) []string {
	var types []string
	err := suite.pg.DB.Raw(`SELECT event_type FROM outbox_events WHERE aggregate_id = ? ORDER BY created_at, event_type`,
		aggregateID.Bytes()).Scan(&types).Error
	suite.Require().NoError(err)
	return types
}

func (suite *UnitOfWorkIntegrationTestSuite) vendor() kernel.Actor {
	a, err := kernel.NewVendorActor(suite.stall.VendorID, suite.stall.StallID)
	suite.Require().NoError(err)
	return a
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderWithItemsAndCreatedEvent() {
	o := suite.newOrder(order.Delivery)

	stored := suite.addOrder(o)

	suite.Equal(order.Pending, stored.Status())
	suite.Equal("270.00", stored.TotalPrice().String())
	suite.Equal("20.00", stored.TotalCommissionFee().String())
	suite.Equal("50.00", stored.DeliveryFee().String())
	suite.Equal("no ice", stored.Notes())
	suite.Require().Len(stored.Items(), 1)
	suite.Equal(2, stored.Items()[0].Quantity())
	suite.Equal(1, stored.Version())
	suite.Equal([]string{order.EventTypeCreated}, suite.outboxTypes(o.ID()))

	var payload []byte
	suite.Require().NoError(suite.pg.DB.Raw(`SELECT payload FROM outbox_events WHERE aggregate_id = ?`, o.ID().Bytes()).
		Scan(&payload).Error)
	var event order.CreatedEvent
	suite.Require().NoError(json.Unmarshal(payload, &event))
	suite.Equal(o.ID().String(), event.OrderID)
	suite.Equal("270.00", event.TotalPrice)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderCartRemovalAndEvents() {
	ctx := context.Background()
	line, err := cart.NewLine(kernel.NewUUID(), suite.buyerID, suite.stall.ProductID, suite.stall.StallID, 2, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CartRepository().Add(ctx, line))

	o := suite.newOrder(order.Pickup)
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	removed, err := uow.CartRepository().Remove(ctx, line.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(1), removed)
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
	kept, err := suite.factory.Create().CartRepository().Get(ctx, line.ID())
	suite.Require().NoError(err)
	suite.Equal(2, kept.Quantity())
	suite.Empty(suite.outboxTypes(o.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitAfterCommit_Fails() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Error(uow.Commit(ctx))
	suite.Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderUpdate_StaleVersionIsConflict() {
	ctx := context.Background()
	id := suite.addOrder(suite.newOrder(order.Pickup)).ID()

	first, err := suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)
	second, err := suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)

	suite.Require().NoError(first.Accept(suite.vendor(), now.Add(time.Minute)))
	suite.Require().NoError(suite.factory.Create().OrderRepository().Update(ctx, first))

	suite.Require().NoError(second.Reject(suite.vendor(), "sold out", now.Add(2*time.Minute)))
	err = suite.factory.Create().OrderRepository().Update(ctx, second)
	suite.ErrorIs(err, errs.ErrConflict)

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(order.ToPrepare, stored.Status())
	suite.Equal(2, stored.Version())
	suite.Empty(stored.RejectionReason())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderUpdate_WritesStatusChangedEvent() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Pickup))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(o.Accept(suite.vendor(), now.Add(time.Minute)))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]string{order.EventTypeCreated, order.EventTypeStatusChanged}, suite.outboxTypes(o.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryRequest_SecondActiveRequestIsConflict() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Delivery))
	repo := suite.factory.Create().DeliveryRequestRepository()

	first, err := delivery.NewRequest(kernel.NewUUID(), o.ID(), now)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, first))

	second, err := delivery.NewRequest(kernel.NewUUID(), o.ID(), now.Add(time.Second))
	suite.Require().NoError(err)
	suite.ErrorIs(repo.Add(ctx, second), errs.ErrConflict)

	suite.Require().NoError(first.Cancel(now.Add(time.Minute)))
	suite.Require().NoError(repo.Update(ctx, first))
	suite.Require().NoError(repo.Add(ctx, second))

	current, err := repo.FindCurrentByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(current)
	suite.True(current.ID().IsEqual(second.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryRequest_AssignmentRoundTrips() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Delivery))
	partnerID, err := suite.pg.SeedPartner(true)
	suite.Require().NoError(err)
	repo := suite.factory.Create().DeliveryRequestRepository()

	r, err := delivery.NewRequest(kernel.NewUUID(), o.ID(), now)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, r))
	suite.Require().NoError(r.Assign(partnerID, now.Add(time.Minute)))
	suite.Require().NoError(repo.Update(ctx, r))

	stored, err := repo.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Assigned, stored.Status())
	suite.True(stored.IsAssignedTo(partnerID))
	suite.Require().NotNil(stored.AssignedAt())
	suite.True(stored.AssignedAt().Equal(now.Add(time.Minute)))

	partner, err := suite.factory.Create().PartnerReader().Get(ctx, partnerID)
	suite.Require().NoError(err)
	suite.True(partner.IsActive)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConfirmation_SecondForSameOrderIsInvalidTransition() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Pickup))
	repo := suite.factory.Create().ConfirmationRepository()

	first, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, first))

	second, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	suite.ErrorIs(repo.Add(ctx, second), errs.ErrInvalidTransition)

	stored, err := repo.GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(stored.ID().IsEqual(first.ID()))
	suite.True(stored.Deadline().Equal(now.Add(confirmation.DefaultWindow)))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConfirmation_ManualAndAutoConfirmOnlyOneWins() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Pickup))
	c, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ConfirmationRepository().Add(ctx, c))

	deadline := c.Deadline()
	buyerCopy, err := suite.factory.Create().ConfirmationRepository().GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	sweepCopy, err := suite.factory.Create().ConfirmationRepository().GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(buyerCopy.Confirm(deadline))
	suite.Require().NoError(sweepCopy.AutoConfirm(deadline.Add(time.Nanosecond)))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, c := range []*confirmation.Confirmation{buyerCopy, sweepCopy} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results[i] = err
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()
			if err := uow.ConfirmationRepository().Finalize(ctx, c); err != nil {
				results[i] = err
				return
			}
			results[i] = uow.Commit(ctx)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		suite.ErrorIs(err, errs.ErrConflict)
	}
	suite.Equal(1, wins)

	stored, err := suite.factory.Create().ConfirmationRepository().GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsFinalized())
	suite.NotEqual(stored.IsConfirmed(), stored.IsAutoConfirmed())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConfirmation_ExpiredListingAndLocking() {
	ctx := context.Background()
	expiredOrder := suite.receivableOrder()
	freshOrder := suite.receivableOrder()
	strayOrder := suite.addOrder(suite.newOrder(order.Pickup))

	expired, err := confirmation.New(kernel.NewUUID(), expiredOrder.ID(), now.Add(-2*confirmation.DefaultWindow), confirmation.DefaultWindow)
	suite.Require().NoError(err)
	fresh, err := confirmation.New(kernel.NewUUID(), freshOrder.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	stray, err := confirmation.New(kernel.NewUUID(), strayOrder.ID(), now.Add(-3*confirmation.DefaultWindow), confirmation.DefaultWindow)
	suite.Require().NoError(err)
	repo := suite.factory.Create().ConfirmationRepository()
	suite.Require().NoError(repo.Add(ctx, expired))
	suite.Require().NoError(repo.Add(ctx, fresh))
	suite.Require().NoError(repo.Add(ctx, stray))

	ids, err := repo.ListExpired(ctx, now, 10)
	suite.Require().NoError(err)
	suite.Require().Len(ids, 1)
	suite.True(ids[0].IsEqual(expired.ID()))

	holder := suite.factory.Create()
	suite.Require().NoError(holder.Begin(ctx))
	defer func() { _ = holder.Rollback(ctx) }()
	locked, err := holder.ConfirmationRepository().LockExpired(ctx, expired.ID(), now)
	suite.Require().NoError(err)
	suite.Require().NotNil(locked)

	other := suite.factory.Create()
	suite.Require().NoError(other.Begin(ctx))
	defer func() { _ = other.Rollback(ctx) }()
	skipped, err := other.ConfirmationRepository().LockExpired(ctx, expired.ID(), now)
	suite.Require().NoError(err)
	suite.Nil(skipped)

	notExpired, err := other.ConfirmationRepository().LockExpired(ctx, fresh.ID(), now)
	suite.Require().NoError(err)
	suite.Nil(notExpired)

	// The stray confirmation is expired and open, but its order is not awaiting receipt.
	strayLocked, err := other.ConfirmationRepository().LockExpired(ctx, stray.ID(), now)
	suite.Require().NoError(err)
	suite.Nil(strayLocked)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConfirmOrderRacingSweep_AccruesFeesOnce() {
	ctx := context.Background()
	o := suite.receivableOrder()
	c, err := confirmation.New(kernel.NewUUID(), o.ID(), now, confirmation.DefaultWindow)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ConfirmationRepository().Add(ctx, c))

	before, err := suite.pg.PendingFees(suite.stall.StallID)
	suite.Require().NoError(err)

	uows := confirmationUoWs{suite.factory}
	lifecycle := services.NewOrderLifecycle(confirmation.DefaultWindow)
	confirmHandler := commands.NewConfirmOrderCommandHandler(uows, lifecycle)
	sweepHandler := commands.NewSweepExpiredConfirmationsCommandHandler(uows, lifecycle)

	buyer, err := kernel.NewActor(suite.buyerID, kernel.RoleUser)
	suite.Require().NoError(err)
	confirmCmd, err := commands.NewConfirmOrderCommand(o.ID(), buyer, c.Deadline())
	suite.Require().NoError(err)
	sweepCmd, err := commands.NewSweepExpiredConfirmationsCommand(c.Deadline().Add(time.Nanosecond), 10)
	suite.Require().NoError(err)

	var (
		confirmErr error
		swept      []*confirmation.Confirmation
	)
	var g errgroup.Group
	g.Go(func() error {
		_, confirmErr = confirmHandler.Handle(ctx, confirmCmd)
		return nil
	})
	g.Go(func() error {
		var err error
		swept, err = sweepHandler.Handle(ctx, sweepCmd)
		return err
	})
	suite.Require().NoError(g.Wait())

	if confirmErr != nil {
		suite.ErrorIs(confirmErr, errs.ErrInvalidTransition)
		suite.Len(swept, 1)
	} else {
		suite.Empty(swept)
	}

	stored, err := suite.factory.Create().ConfirmationRepository().GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.NotEqual(stored.IsConfirmed(), stored.IsAutoConfirmed())

	accomplished, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Accomplished, accomplished.Status())

	after, err := suite.pg.PendingFees(suite.stall.StallID)
	suite.Require().NoError(err)
	suite.Equal(kernel.MustMoney(before).Add(o.TotalCommissionFee()).String(), kernel.MustMoney(after).String())

	again, err := sweepHandler.Handle(ctx, sweepCmd)
	suite.Require().NoError(err)
	suite.Empty(again)
	unchanged, err := suite.pg.PendingFees(suite.stall.StallID)
	suite.Require().NoError(err)
	suite.Equal(after, unchanged)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStallLedger_ConcurrentAccrualsAllLand() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()
			if err := uow.StallLedger().AccruePendingFees(ctx, suite.stall.StallID, kernel.MustMoney("12.50")); err != nil {
				return
			}
			_ = uow.Commit(ctx)
		}()
	}
	wg.Wait()

	fees, err := suite.pg.PendingFees(suite.stall.StallID)
	suite.Require().NoError(err)
	suite.Equal("125.00", fees)

	err = suite.factory.Create().StallLedger().AccruePendingFees(ctx, kernel.NewUUID(), kernel.MustMoney("1.00"))
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCart_LinesForUserSkipForeignOnes() {
	ctx := context.Background()
	otherBuyer, err := suite.pg.SeedUser(true)
	suite.Require().NoError(err)
	repo := suite.factory.Create().CartRepository()

	mine, err := cart.NewLine(kernel.NewUUID(), suite.buyerID, suite.stall.ProductID, suite.stall.StallID, 1, now)
	suite.Require().NoError(err)
	theirs, err := cart.NewLine(kernel.NewUUID(), otherBuyer, suite.stall.ProductID, suite.stall.StallID, 3, now)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, mine))
	suite.Require().NoError(repo.Add(ctx, theirs))

	duplicate, err := cart.NewLine(kernel.NewUUID(), suite.buyerID, suite.stall.ProductID, suite.stall.StallID, 1, now)
	suite.Require().NoError(err)
	suite.ErrorIs(repo.Add(ctx, duplicate), errs.ErrConflict)

	lines, err := repo.GetForUser(ctx, suite.buyerID, []kernel.UUID{mine.ID(), theirs.ID()})
	suite.Require().NoError(err)
	suite.Require().Len(lines, 1)
	suite.True(lines[0].ID().IsEqual(mine.ID()))

	found, err := repo.FindByProduct(ctx, suite.buyerID, suite.stall.ProductID)
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.True(found.ID().IsEqual(mine.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutbox_LockAndMarkPublished() {
	ctx := context.Background()
	o := suite.addOrder(suite.newOrder(order.Pickup))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	messages, err := uow.OutboxRepository().LockUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 1)
	suite.True(messages[0].AggregateID.IsEqual(o.ID()))

	concurrent := suite.factory.Create()
	suite.Require().NoError(concurrent.Begin(ctx))
	skipped, err := concurrent.OutboxRepository().LockUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(skipped)
	suite.Require().NoError(concurrent.Rollback(ctx))

	suite.Require().NoError(uow.OutboxRepository().MarkPublished(ctx, []kernel.UUID{messages[0].ID}, now))
	suite.Require().NoError(uow.Commit(ctx))

	left, err := suite.factory.Create().OutboxRepository().LockUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(left)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestProductReader_GetManyReportsMissingProduct() {
	ctx := context.Background()
	reader := suite.factory.Create().ProductReader()

	products, err := reader.GetMany(ctx, []kernel.UUID{suite.stall.ProductID})
	suite.Require().NoError(err)
	suite.Equal("100.00", products[suite.stall.ProductID].BasePrice.String())

	_, err = reader.GetMany(ctx, []kernel.UUID{suite.stall.ProductID, kernel.NewUUID()})
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
