package cmd

import (
	"log/slog"

	httpadapter "iskxpress/internal/adapters/in/http"
	"iskxpress/internal/adapters/out/kafka"
	"iskxpress/internal/adapters/out/postgres"
	redisadapter "iskxpress/internal/adapters/out/redis"
	"iskxpress/internal/core/application/usecases/commands"
	"iskxpress/internal/core/application/usecases/queries"
	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/core/domain/services"
	"iskxpress/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires the application from its infrastructure: it owns the
// shared services and hands out command handlers, query handlers, the HTTP server
// and the job manager, each built over the same GORM unit of work factory.
//
// Example:
//
//	root, err := cmd.NewCompositionRoot(config, logger, gormDB, redisClient, publisher)
//	if err != nil {
//		log.Fatalf("wiring failed: %v", err)
//	}
//	jobManager := root.CreateJobManager()
//	server := root.CreateHTTPServer()
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	redis      goredis.UniversalClient
	publisher  *kafka.Publisher

	pricing   services.PricingEngine
	lifecycle services.OrderLifecycle
}

func NewCompositionRoot(
	config Config,
	logger *slog.Logger,
	gormDB *gorm.DB,
	redis goredis.UniversalClient,
	publisher *kafka.Publisher,
) (CompositionRoot, error) {
	deliveryFee, err := kernel.MoneyFromString(config.DeliveryFee)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		redis:      redis,
		publisher:  publisher,
		pricing:    services.NewPricingEngine(deliveryFee),
		lifecycle:  services.NewOrderLifecycle(config.ConfirmationWindow),
	}, nil
}

func (c *CompositionRoot) CreateAddCartLineCommandHandler() commands.AddCartLineCommandHandler {
	return commands.NewAddCartLineCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCartLineCommandHandler() commands.UpdateCartLineCommandHandler {
	return commands.NewUpdateCartLineCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateRemoveCartLineCommandHandler() commands.RemoveCartLineCommandHandler {
	return commands.NewRemoveCartLineCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.CreateGorm()
	})
	return commands.NewCheckoutCommandHandler(f, services.NewCartAggregator(c.pricing))
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCreateDeliveryRequestCommandHandler() commands.CreateDeliveryRequestCommandHandler {
	return commands.NewCreateDeliveryRequestCommandHandler(c.deliveryUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateAssignDeliveryPartnerCommandHandler() commands.AssignDeliveryPartnerCommandHandler {
	return commands.NewAssignDeliveryPartnerCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryRequestCommandHandler() commands.CompleteDeliveryRequestCommandHandler {
	return commands.NewCompleteDeliveryRequestCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCancelDeliveryRequestCommandHandler() commands.CancelDeliveryRequestCommandHandler {
	return commands.NewCancelDeliveryRequestCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.confirmationUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateSweepExpiredConfirmationsCommandHandler() commands.SweepExpiredConfirmationsCommandHandler {
	return commands.NewSweepExpiredConfirmationsCommandHandler(c.confirmationUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.CreateGorm()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetCartQueryHandler() queries.GetCartQueryHandler {
	return queries.NewGetCartQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetConfirmationStatusQueryHandler() queries.GetConfirmationStatusQueryHandler {
	return queries.NewGetConfirmationStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenStallOrdersQueryHandler() queries.GetOpenStallOrdersQueryHandler {
	return queries.NewGetOpenStallOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		AddCartLine:             c.CreateAddCartLineCommandHandler(),
		UpdateCartLine:          c.CreateUpdateCartLineCommandHandler(),
		RemoveCartLine:          c.CreateRemoveCartLineCommandHandler(),
		Checkout:                c.CreateCheckoutCommandHandler(),
		UpdateOrderStatus:       c.CreateUpdateOrderStatusCommandHandler(),
		RejectOrder:             c.CreateRejectOrderCommandHandler(),
		ConfirmOrder:            c.CreateConfirmOrderCommandHandler(),
		CreateDeliveryRequest:   c.CreateCreateDeliveryRequestCommandHandler(),
		AssignDeliveryPartner:   c.CreateAssignDeliveryPartnerCommandHandler(),
		CompleteDeliveryRequest: c.CreateCompleteDeliveryRequestCommandHandler(),
		CancelDeliveryRequest:   c.CreateCancelDeliveryRequestCommandHandler(),
		GetCart:                 c.CreateGetCartQueryHandler(),
		GetOrder:                c.CreateGetOrderQueryHandler(),
		GetConfirmationStatus:   c.CreateGetConfirmationStatusQueryHandler(),
		GetOpenStallOrders:      c.CreateGetOpenStallOrdersQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	sweep := jobs.NewConfirmationSweepJob(
		c.CreateSweepExpiredConfirmationsCommandHandler(),
		redisadapter.NewLease(c.redis),
		c.config.SweepSchedule,
		c.config.SweepBatchSize,
		c.config.SweepLeaseTTL,
		c.logger,
	)
	relay := jobs.NewOutboxRelayJob(
		c.CreateRelayOutboxCommandHandler(),
		c.config.OutboxSchedule,
		c.config.OutboxBatchSize,
		c.logger,
	)
	return jobs.NewJobManager(sweep, relay)
}

func (c *CompositionRoot) cartUoWFactory() commands.CartUoWFactory {
	return FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) confirmationUoWFactory() commands.ConfirmationUoWFactory {
	return FuncConfirmationUoWFactory(func() commands.ConfirmationUoW {
		return c.uowFactory.CreateGorm()
	})
}

// FuncCartUoWFactory adapts a constructor function to commands.CartUoWFactory.
type FuncCartUoWFactory func() commands.CartUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

// FuncCheckoutUoWFactory adapts a constructor function to commands.CheckoutUoWFactory.
type FuncCheckoutUoWFactory func() commands.CheckoutUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

// FuncOrderUoWFactory adapts a constructor function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncDeliveryUoWFactory adapts a constructor function to commands.DeliveryUoWFactory.
type FuncDeliveryUoWFactory func() commands.DeliveryUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

// FuncConfirmationUoWFactory adapts a constructor function to commands.ConfirmationUoWFactory.
type FuncConfirmationUoWFactory func() commands.ConfirmationUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncConfirmationUoWFactory) Create() commands.ConfirmationUoW {
	return f()
}

// FuncOutboxUoWFactory adapts a constructor function to commands.OutboxUoWFactory.
type FuncOutboxUoWFactory func() commands.OutboxUoW

// Create opens a new, not yet begun, unit of work.
func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
