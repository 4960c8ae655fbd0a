package queries_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockRouteReader struct{ mock.Mock }

func (m *MockRouteReader) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*route.Route)
	return r, args.Error(1)
}

func (m *MockRouteReader) Find(ctx context.Context, filter ports.RouteFilter) ([]*route.Route, error) {
	args := m.Called(ctx, filter)
	routes, _ := args.Get(0).([]*route.Route)
	return routes, args.Error(1)
}

type MockInvoiceReader struct{ mock.Mock }

func (m *MockInvoiceReader) Get(ctx context.Context, id kernel.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*invoice.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceReader) Find(ctx context.Context, filter ports.InvoiceFilter) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, filter)
	invoices, _ := args.Get(0).([]*invoice.Invoice)
	return invoices, args.Error(1)
}

func actor(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	a, err := access.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newOrder(t *testing.T, client kernel.UUID) *order.Order {
	t.Helper()
	window, err := order.NewPickupWindow(now, now.Add(time.Hour))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(now), order.Details{
		Client:       client,
		ServiceType:  order.Express,
		PickupDate:   now,
		PickupWindow: window,
	}, nil, client, now)
	require.NoError(t, err)
	return o
}

func newInvoice(t *testing.T, client kernel.UUID) *invoice.Invoice {
	t.Helper()
	line, err := invoice.NewLineItem("Ironing", 2, kernel.MustMoney("5"), kernel.MustMoney("10"))
	require.NoError(t, err)
	inv, err := invoice.NewInvoice(kernel.NewUUID(), invoice.GenerateNumber(now), invoice.Terms{
		Client:        client,
		Orders:        []kernel.UUID{kernel.NewUUID()},
		DueDate:       now.Add(24 * time.Hour),
		LineItems:     []invoice.LineItem{line},
		Subtotal:      kernel.MustMoney("10"),
		VATPercentage: decimal.Zero,
		VATAmount:     kernel.ZeroMoney(),
		Total:         kernel.MustMoney("10"),
	}, now)
	require.NoError(t, err)
	return inv
}

func TestListOrdersQueryHandler_ScopesByRole(t *testing.T) {
	someoneElse := kernel.NewUUID()
	washing := order.Washing

	t.Run("client is forced onto its own orders", func(t *testing.T) {
		client := actor(t, access.Client)
		query, err := queries.NewListOrdersQuery(client, ports.OrderFilter{Client: &someoneElse, Status: &washing})
		require.NoError(t, err)

		reader := new(MockOrderReader)
		reader.On("Find", mock.Anything, mock.MatchedBy(func(f ports.OrderFilter) bool {
			return f.Client != nil && f.Client.IsEqual(client.UserID) && f.DeliverID == nil &&
				f.Status != nil && *f.Status == order.Washing
		})).Return([]*order.Order{newOrder(t, client.UserID)}, nil).Once()

		orders, err := queries.NewListOrdersQueryHandler(reader).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Len(t, orders, 1)
		reader.AssertExpectations(t)
	})

	t.Run("driver sees orders it delivers", func(t *testing.T) {
		driver := actor(t, access.Driver)
		query, err := queries.NewListOrdersQuery(driver, ports.OrderFilter{})
		require.NoError(t, err)

		reader := new(MockOrderReader)
		reader.On("Find", mock.Anything, mock.MatchedBy(func(f ports.OrderFilter) bool {
			return f.DeliverID != nil && f.DeliverID.IsEqual(driver.UserID) && f.Client == nil
		})).Return([]*order.Order{}, nil).Once()

		_, err = queries.NewListOrdersQueryHandler(reader).Handle(t.Context(), query)

		require.NoError(t, err)
		reader.AssertExpectations(t)
	})

	t.Run("staff filter passes through", func(t *testing.T) {
		query, err := queries.NewListOrdersQuery(actor(t, access.Staff), ports.OrderFilter{Client: &someoneElse})
		require.NoError(t, err)
		assert.True(t, query.Filter().Client.IsEqual(someoneElse))
	})
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	client := actor(t, access.Client)
	mine := newOrder(t, client.UserID)
	theirs := newOrder(t, kernel.NewUUID())

	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, mine.ID()).Return(mine, nil)
	reader.On("Get", mock.Anything, theirs.ID()).Return(theirs, nil)
	h := queries.NewGetOrderQueryHandler(reader)

	query, err := queries.NewGetOrderQuery(client, mine.ID())
	require.NoError(t, err)
	got, err := h.Handle(t.Context(), query)
	require.NoError(t, err)
	assert.Equal(t, mine.ID(), got.ID())

	query, err = queries.NewGetOrderQuery(client, theirs.ID())
	require.NoError(t, err)
	_, err = h.Handle(t.Context(), query)
	require.ErrorIs(t, err, errs.ErrForbidden)

	query, err = queries.NewGetOrderQuery(actor(t, access.Staff), theirs.ID())
	require.NoError(t, err)
	_, err = h.Handle(t.Context(), query)
	require.NoError(t, err)
}

func TestGetOrderQueryHandler_Handle_InvalidQuery(t *testing.T) {
	_, err := queries.NewGetOrderQueryHandler(new(MockOrderReader)).Handle(t.Context(), queries.GetOrderQuery{})
	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestListRoutesQueryHandler_DriverScope(t *testing.T) {
	driver := actor(t, access.Driver)
	day := now
	query, err := queries.NewListRoutesQuery(driver, ports.RouteFilter{Date: &day})
	require.NoError(t, err)

	reader := new(MockRouteReader)
	reader.On("Find", mock.Anything, mock.MatchedBy(func(f ports.RouteFilter) bool {
		return f.Driver != nil && f.Driver.IsEqual(driver.UserID) && f.Date != nil
	})).Return([]*route.Route{}, nil).Once()

	_, err = queries.NewListRoutesQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	reader.AssertExpectations(t)
}

func TestGetRouteQueryHandler_NotFound(t *testing.T) {
	id := kernel.NewUUID()
	reader := new(MockRouteReader)
	reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("route", id.String()))

	query, err := queries.NewGetRouteQuery(actor(t, access.Driver), id)
	require.NoError(t, err)
	_, err = queries.NewGetRouteQueryHandler(reader).Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestListInvoicesQueryHandler_Handle(t *testing.T) {
	t.Run("client sees own invoices", func(t *testing.T) {
		client := actor(t, access.Client)
		query, err := queries.NewListInvoicesQuery(client, ports.InvoiceFilter{})
		require.NoError(t, err)

		reader := new(MockInvoiceReader)
		reader.On("Find", mock.Anything, mock.MatchedBy(func(f ports.InvoiceFilter) bool {
			return f.Client != nil && f.Client.IsEqual(client.UserID)
		})).Return([]*invoice.Invoice{newInvoice(t, client.UserID)}, nil).Once()

		invoices, err := queries.NewListInvoicesQueryHandler(reader).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Len(t, invoices, 1)
	})

	t.Run("driver is forbidden", func(t *testing.T) {
		query, err := queries.NewListInvoicesQuery(actor(t, access.Driver), ports.InvoiceFilter{})
		require.NoError(t, err)

		reader := new(MockInvoiceReader)
		_, err = queries.NewListInvoicesQueryHandler(reader).Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrForbidden)
		reader.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})
}

func TestGetInvoiceQueryHandler_OtherClient(t *testing.T) {
	inv := newInvoice(t, kernel.NewUUID())
	reader := new(MockInvoiceReader)
	reader.On("Get", mock.Anything, inv.ID()).Return(inv, nil)

	query, err := queries.NewGetInvoiceQuery(actor(t, access.Client), inv.ID())
	require.NoError(t, err)
	_, err = queries.NewGetInvoiceQueryHandler(reader).Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrForbidden)
}
