package commands_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*route.Route)
	return r, args.Error(1)
}

func (m *MockRouteRepository) Find(ctx context.Context, filter ports.RouteFilter) ([]*route.Route, error) {
	args := m.Called(ctx, filter)
	routes, _ := args.Get(0).([]*route.Route)
	return routes, args.Error(1)
}

func (m *MockRouteRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockInvoiceRepository struct{ mock.Mock }

func (m *MockInvoiceRepository) Add(ctx context.Context, inv *invoice.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Get(ctx context.Context, id kernel.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*invoice.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceRepository) Find(ctx context.Context, filter ports.InvoiceFilter) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, filter)
	invoices, _ := args.Get(0).([]*invoice.Invoice)
	return invoices, args.Error(1)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work flavour the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	return m.Called().Get(0).(ports.RouteRepository)
}

func (m *MockUoW) InvoiceRepository() ports.InvoiceRepository {
	return m.Called().Get(0).(ports.InvoiceRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) uow() *MockUoW { return m.MethodCalled("Create").Get(0).(*MockUoW) }

type orderFactory struct{ *MockUoWFactory }

func (f orderFactory) Create() commands.OrderUoW { return f.uow() }

type routeFactory struct{ *MockUoWFactory }

func (f routeFactory) Create() commands.RouteUoW { return f.uow() }

type invoiceFactory struct{ *MockUoWFactory }

func (f invoiceFactory) Create() commands.InvoiceUoW { return f.uow() }

func actor(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	a, err := access.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func details(t *testing.T, client kernel.UUID) order.Details {
	t.Helper()
	window, err := order.NewPickupWindow(now, now.Add(2*time.Hour))
	require.NoError(t, err)
	return order.Details{
		Client:        client,
		ServiceType:   order.Standard,
		PickupDate:    now,
		PickupWindow:  window,
		EstimatedBags: 2,
	}
}

func orderIn(t *testing.T, client kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(now), details(t, client), nil, client, now)
	require.NoError(t, err)
	if status != order.Pending {
		require.NoError(t, o.SetStatus(status, kernel.NewUUID(), now))
	}
	o.ClearDomainEvents()
	return o
}

// expectTx wires a factory returning uow and expects Begin and the deferred Rollback.
// Commit is expected only when commit is true.
func expectTx(ctx context.Context, factory *MockUoWFactory, uow *MockUoW, commit bool) {
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	if commit {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()
}
