package cmd

import (
	"laundry/internal/adapters/out/postgres"
	"laundry/internal/adapters/out/postgres/invoicerepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/routerepo"
	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/ports"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      ports.Clock
}

func NewCompositionRoot(gormDB *gorm.DB, publisher ports.EventPublisher, logger zerolog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		clock:      ports.SystemClock{},
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routeUoWFactory() commands.RouteUoWFactory {
	return FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) invoiceUoWFactory() commands.InvoiceUoWFactory {
	return FuncInvoiceUoWFactory(func() commands.InvoiceUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateReceiveAtFacilityCommandHandler() commands.ReceiveAtFacilityCommandHandler {
	return commands.NewReceiveAtFacilityCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() commands.CreateRouteCommandHandler {
	return commands.NewCreateRouteCommandHandler(c.routeUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateRouteCommandHandler() commands.UpdateRouteCommandHandler {
	return commands.NewUpdateRouteCommandHandler(c.routeUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateRouteStatusCommandHandler() commands.UpdateRouteStatusCommandHandler {
	return commands.NewUpdateRouteStatusCommandHandler(c.routeUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteRouteCommandHandler() commands.DeleteRouteCommandHandler {
	return commands.NewDeleteRouteCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateCreateInvoiceCommandHandler() commands.CreateInvoiceCommandHandler {
	return commands.NewCreateInvoiceCommandHandler(c.invoiceUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.invoiceUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateMarkOverdueCommandHandler() commands.MarkOverdueCommandHandler {
	return commands.NewMarkOverdueCommandHandler(c.invoiceUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateListRoutesQueryHandler() queries.ListRoutesQueryHandler {
	return queries.NewListRoutesQueryHandler(routerepo.NewGormRouteRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() queries.GetRouteQueryHandler {
	return queries.NewGetRouteQueryHandler(routerepo.NewGormRouteRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateListInvoicesQueryHandler() queries.ListInvoicesQueryHandler {
	return queries.NewListInvoicesQueryHandler(invoicerepo.NewGormInvoiceRepository(c.gormDB, nil))
}

func (c *CompositionRoot) CreateGetInvoiceQueryHandler() queries.GetInvoiceQueryHandler {
	return queries.NewGetInvoiceQueryHandler(invoicerepo.NewGormInvoiceRepository(c.gormDB, nil))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncInvoiceUoWFactory func() commands.InvoiceUoW

func (f FuncInvoiceUoWFactory) Create() commands.InvoiceUoW {
	return f()
}
