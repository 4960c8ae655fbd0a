package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	postgres_adapter "laundry/internal/adapters/out/postgres"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderStatusChanged(ctx context.Context, events []order.StatusChanged) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// UnitOfWorkIntegrationTestSuite provides integration testing for the GORM-based
// Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	publisher *MockEventPublisher
	factory   ports.UnitOfWorkFactory
	seq       int
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

// SetupTest ensures clean database state and a fresh publisher before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.publisher = new(MockEventPublisher)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.pg.DB, suite.publisher, zerolog.Nop())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

// TestUnitOfWorkFactory_Create verifies factory creates separate unit of work instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.RouteRepository())
	suite.NotNil(uow1.InvoiceRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit and rollback, including
// the deferred rollback after a successful commit.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().NoError(uow.Rollback(ctx), "Rollback after commit is a no-op")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "Should error when committing without active transaction")
	suite.Require().Error(uow.Rollback(ctx), "Should error when rolling back without active transaction")
}

// TestUnitOfWork_MultiRepositoryTransaction verifies a route and the orders it
// assigns are committed together and the status events are published once.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryTransaction() {
	ctx := suite.T().Context()
	o := suite.storedOrder()
	driver, planner := kernel.NewUUID(), kernel.NewUUID()

	suite.publisher.On("PublishOrderStatusChanged", mock.Anything, mock.MatchedBy(func(events []order.StatusChanged) bool {
		return len(events) == 1 && events[0].OrderID == o.ID() &&
			events[0].From == order.Pending && events[0].To == order.Assigned &&
			events[0].ChangedBy == planner
	})).Return(nil).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	r, err := route.NewRoute(kernel.NewUUID(), now, driver, "North", []kernel.UUID{o.ID()}, now)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignToDriver(driver, planner, now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.RouteRepository().Add(ctx, r))

	suite.Require().NoError(uow.Commit(ctx))
	suite.Empty(o.DomainEvents(), "published events are cleared")

	check := suite.factory.Create()
	got, err := check.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, got.Status())
	suite.Equal(driver, *got.DeliverID())

	storedRoute, err := check.RouteRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{o.ID()}, storedRoute.Orders())

	suite.publisher.AssertExpectations(suite.T())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes and
// publishes nothing.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := suite.T().Context()
	o := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(o.SetStatus(order.Washing, kernel.NewUUID(), now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))

	_, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
	suite.publisher.AssertNotCalled(suite.T(), "PublishOrderStatusChanged", mock.Anything, mock.Anything)
}

// TestUnitOfWork_PublishFailure_KeepsCommit verifies a failing publisher does not
// undo committed data.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PublishFailure_KeepsCommit() {
	ctx := suite.T().Context()
	o := suite.storedOrder()

	suite.publisher.On("PublishOrderStatusChanged", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(o.SetStatus(order.Washing, kernel.NewUUID(), now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	got, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Washing, got.Status())
	suite.publisher.AssertExpectations(suite.T())
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := suite.T().Context()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	order1 := suite.newOrder()
	order2 := suite.newOrder()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	check := suite.factory.Create()
	_, err = check.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")
	_, err = check.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_ConcurrentPayments verifies a second unit of work waits for the
// invoice row held by the first and sees its payment before appending its own.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentPayments() {
	ctx := suite.T().Context()
	inv := suite.storedInvoice()

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	defer func() { _ = first.Rollback(ctx) }()
	held, err := first.InvoiceRepository().Get(ctx, inv.ID())
	suite.Require().NoError(err)

	loaded := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		second := suite.factory.Create()
		if err := second.Begin(ctx); err != nil {
			done <- err
			return
		}
		defer func() { _ = second.Rollback(ctx) }()

		waiting, err := second.InvoiceRepository().Get(ctx, inv.ID())
		close(loaded)
		if err != nil {
			done <- err
			return
		}
		if err := suite.recordPayment(waiting, "30.00", "TX-2"); err != nil {
			done <- err
			return
		}
		if err := second.InvoiceRepository().Update(ctx, waiting); err != nil {
			done <- err
			return
		}
		done <- second.Commit(ctx)
	}()

	select {
	case <-loaded:
		suite.FailNow("second unit of work loaded a locked invoice")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(suite.recordPayment(held, "40.00", "TX-1"))
	suite.Require().NoError(first.InvoiceRepository().Update(ctx, held))
	suite.Require().NoError(first.Commit(ctx))
	suite.Require().NoError(<-done)

	got, err := suite.factory.Create().InvoiceRepository().Get(ctx, inv.ID())
	suite.Require().NoError(err)
	suite.Require().Len(got.Payments(), 2)
	suite.Equal("TX-1", got.Payments()[0].Reference())
	suite.Equal("TX-2", got.Payments()[1].Reference())
	suite.Equal("70.00", got.AmountPaid().String())
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	suite.seq++
	number, err := order.ParseNumber(fmt.Sprintf("ORD-250512-%d", 1000+suite.seq))
	suite.Require().NoError(err)
	window, err := order.NewPickupWindow(now, now.Add(2*time.Hour))
	suite.Require().NoError(err)

	client := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), number, order.Details{
		Client:        client,
		ServiceType:   order.Standard,
		PickupDate:    now,
		PickupWindow:  window,
		EstimatedBags: 2,
	}, nil, client, now)
	suite.Require().NoError(err)
	o.ClearDomainEvents()
	return o
}

// storedOrder commits a new order outside any transaction.
func (suite *UnitOfWorkIntegrationTestSuite) storedOrder() *order.Order {
	o := suite.newOrder()
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(suite.T().Context(), o))
	return o
}

// storedInvoice commits an unpaid invoice for a stored order.
func (suite *UnitOfWorkIntegrationTestSuite) storedInvoice() *invoice.Invoice {
	o := suite.storedOrder()
	suite.seq++
	number, err := invoice.ParseNumber(fmt.Sprintf("INV-2505-%d", 1000+suite.seq))
	suite.Require().NoError(err)
	li, err := invoice.NewLineItem("Wash and fold", 4, kernel.MustMoney("25.00"), kernel.MustMoney("100.00"))
	suite.Require().NoError(err)

	inv, err := invoice.NewInvoice(kernel.NewUUID(), number, invoice.Terms{
		Client:        o.Client(),
		Orders:        []kernel.UUID{o.ID()},
		DueDate:       now.Add(24 * time.Hour),
		LineItems:     []invoice.LineItem{li},
		Subtotal:      kernel.MustMoney("100.00"),
		VATPercentage: decimal.NewFromInt(15),
		VATAmount:     kernel.MustMoney("15.00"),
		Total:         kernel.MustMoney("115.00"),
	}, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().InvoiceRepository().Add(suite.T().Context(), inv))
	return inv
}

func (suite *UnitOfWorkIntegrationTestSuite) recordPayment(inv *invoice.Invoice, amount, ref string) error {
	p, err := invoice.NewPayment(kernel.MustMoney(amount), invoice.BankTransfer, ref, now)
	if err != nil {
		return err
	}
	_, err = inv.RecordPayment(p)
	return err
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
