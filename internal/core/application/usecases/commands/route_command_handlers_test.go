package commands_test

import (
	"testing"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateRouteCommandHandler_Handle_AssignsOrders(t *testing.T) {
	ctx := t.Context()
	staff := actor(t, access.Staff)
	driver := kernel.NewUUID()
	a := orderIn(t, kernel.NewUUID(), order.Pending)
	b := orderIn(t, kernel.NewUUID(), order.Pending)
	ids := []kernel.UUID{a.ID(), b.ID()}
	cmd, err := commands.NewCreateRouteCommand(staff, now, driver, "Riverside", ids)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("GetMany", ctx, ids).Return([]*order.Order{a, b}, nil).Once(),
		orders.On("Update", ctx, a).Return(nil).Once(),
		orders.On("Update", ctx, b).Return(nil).Once(),
		uow.On("RouteRepository").Return(routes).Once(),
		routes.On("Add", ctx, mock.AnythingOfType("*route.Route")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewCreateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, route.Planned, created.Status())
	for _, o := range []*order.Order{a, b} {
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.DeliverID())
		assert.True(t, o.DeliverID().IsEqual(driver))
		assert.Len(t, o.History(), 2)
	}
	orders.AssertExpectations(t)
	routes.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateRouteCommandHandler_Handle_MissingOrder(t *testing.T) {
	ctx := t.Context()
	missing := kernel.NewUUID()
	cmd, err := commands.NewCreateRouteCommand(actor(t, access.Admin), now, kernel.NewUUID(), "Riverside",
		[]kernel.UUID{missing})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, false)
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("GetMany", ctx, []kernel.UUID{missing}).
		Return(nil, errs.NewObjectNotFoundError("order", missing.String())).Once()

	h := commands.NewCreateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	routes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateRouteCommandHandler_Handle_WithoutOrders(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRouteCommand(actor(t, access.Admin), now, kernel.NewUUID(), "Riverside", nil)
	require.NoError(t, err)

	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, true)
	uow.On("RouteRepository").Return(routes).Once()
	routes.On("Add", ctx, mock.Anything).Return(nil).Once()

	h := commands.NewCreateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, created.Orders())
	uow.AssertNotCalled(t, "OrderRepository")
}

func TestCreateRouteCommandHandler_Handle_DriverIsForbidden(t *testing.T) {
	cmd, err := commands.NewCreateRouteCommand(actor(t, access.Driver), now, kernel.NewUUID(), "Riverside", nil)
	require.NoError(t, err)

	h := commands.NewCreateRouteCommandHandler(routeFactory{new(MockUoWFactory)}, fixedClock{now})
	_, err = h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestUpdateRouteCommandHandler_Handle_NewDriverReassigns(t *testing.T) {
	ctx := t.Context()
	a := orderIn(t, kernel.NewUUID(), order.Assigned)
	r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside", []kernel.UUID{a.ID()}, now)
	require.NoError(t, err)
	newDriver := kernel.NewUUID()
	cmd, err := commands.NewUpdateRouteCommand(actor(t, access.Staff), r.ID(), route.Patch{Driver: &newDriver})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, true)
	uow.On("RouteRepository").Return(routes).Once()
	uow.On("OrderRepository").Return(orders).Once()
	routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
	orders.On("GetMany", ctx, []kernel.UUID{a.ID()}).Return([]*order.Order{a}, nil).Once()
	orders.On("Update", ctx, a).Return(nil).Once()
	routes.On("Update", ctx, r).Return(nil).Once()

	h := commands.NewUpdateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, updated.Driver().IsEqual(newDriver))
	assert.True(t, a.DeliverID().IsEqual(newDriver))
	orders.AssertExpectations(t)
	routes.AssertExpectations(t)
}

func TestUpdateRouteCommandHandler_Handle_AddedOrderLeavesDeliveredAlone(t *testing.T) {
	ctx := t.Context()
	driver := kernel.NewUUID()
	delivered := orderIn(t, kernel.NewUUID(), order.Delivered)
	added := orderIn(t, kernel.NewUUID(), order.Pending)
	r, err := route.NewRoute(kernel.NewUUID(), now, driver, "Riverside", []kernel.UUID{delivered.ID()}, now)
	require.NoError(t, err)
	history := len(delivered.History())
	cmd, err := commands.NewUpdateRouteCommand(actor(t, access.Staff), r.ID(),
		route.Patch{Orders: []kernel.UUID{delivered.ID(), added.ID()}})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, true)
	uow.On("RouteRepository").Return(routes).Once()
	uow.On("OrderRepository").Return(orders).Once()
	routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
	orders.On("GetMany", ctx, []kernel.UUID{added.ID()}).Return([]*order.Order{added}, nil).Once()
	orders.On("Update", ctx, added).Return(nil).Once()
	routes.On("Update", ctx, r).Return(nil).Once()

	h := commands.NewUpdateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Len(t, updated.Orders(), 2)
	assert.Equal(t, order.Assigned, added.Status())
	assert.True(t, added.DeliverID().IsEqual(driver))
	assert.Equal(t, order.Delivered, delivered.Status())
	assert.Len(t, delivered.History(), history)
	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "Update", ctx, delivered)
}

func TestUpdateRouteCommandHandler_Handle_NewDriverSkipsOrdersInProgress(t *testing.T) {
	ctx := t.Context()
	washing := orderIn(t, kernel.NewUUID(), order.Washing)
	assigned := orderIn(t, kernel.NewUUID(), order.Assigned)
	r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside",
		[]kernel.UUID{washing.ID(), assigned.ID()}, now)
	require.NoError(t, err)
	newDriver := kernel.NewUUID()
	cmd, err := commands.NewUpdateRouteCommand(actor(t, access.Admin), r.ID(), route.Patch{Driver: &newDriver})
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, true)
	uow.On("RouteRepository").Return(routes).Once()
	uow.On("OrderRepository").Return(orders).Once()
	routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
	orders.On("GetMany", ctx, []kernel.UUID{washing.ID(), assigned.ID()}).
		Return([]*order.Order{washing, assigned}, nil).Once()
	orders.On("Update", ctx, assigned).Return(nil).Once()
	routes.On("Update", ctx, r).Return(nil).Once()

	h := commands.NewUpdateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Washing, washing.Status())
	assert.False(t, washing.DeliverID() != nil && washing.DeliverID().IsEqual(newDriver))
	assert.True(t, assigned.DeliverID().IsEqual(newDriver))
	orders.AssertExpectations(t)
	orders.AssertNotCalled(t, "Update", ctx, washing)
}

func TestUpdateRouteCommandHandler_Handle_AreaOnlyKeepsOrders(t *testing.T) {
	ctx := t.Context()
	r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside", []kernel.UUID{kernel.NewUUID()}, now)
	require.NoError(t, err)
	area := "Harbour"
	cmd, err := commands.NewUpdateRouteCommand(actor(t, access.Admin), r.ID(), route.Patch{Area: &area})
	require.NoError(t, err)

	routes := new(MockRouteRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	expectTx(ctx, factory, uow, true)
	uow.On("RouteRepository").Return(routes).Once()
	routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
	routes.On("Update", ctx, r).Return(nil).Once()

	h := commands.NewUpdateRouteCommandHandler(routeFactory{factory}, fixedClock{now})
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "Harbour", updated.Area())
	uow.AssertNotCalled(t, "OrderRepository")
}

func TestUpdateRouteStatusCommandHandler_Handle(t *testing.T) {
	driver := actor(t, access.Driver)

	t.Run("driver moves own route", func(t *testing.T) {
		ctx := t.Context()
		r, err := route.NewRoute(kernel.NewUUID(), now, driver.UserID, "Riverside", nil, now)
		require.NoError(t, err)
		cmd, err := commands.NewUpdateRouteStatusCommand(driver, r.ID(), route.InProgress)
		require.NoError(t, err)

		routes := new(MockRouteRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		expectTx(ctx, factory, uow, true)
		uow.On("RouteRepository").Return(routes).Once()
		routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
		routes.On("Update", ctx, r).Return(nil).Once()

		h := commands.NewUpdateRouteStatusCommandHandler(routeFactory{factory}, fixedClock{now})
		updated, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, route.InProgress, updated.Status())
	})

	t.Run("driver cannot move another driver's route", func(t *testing.T) {
		ctx := t.Context()
		r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside", nil, now)
		require.NoError(t, err)
		cmd, err := commands.NewUpdateRouteStatusCommand(driver, r.ID(), route.Completed)
		require.NoError(t, err)

		routes := new(MockRouteRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		expectTx(ctx, factory, uow, false)
		uow.On("RouteRepository").Return(routes).Once()
		routes.On("Get", ctx, r.ID()).Return(r, nil).Once()

		h := commands.NewUpdateRouteStatusCommandHandler(routeFactory{factory}, fixedClock{now})
		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, route.Planned, r.Status())
	})
}

func TestDeleteRouteCommandHandler_Handle(t *testing.T) {
	t.Run("deletes a planned route", func(t *testing.T) {
		ctx := t.Context()
		r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside", nil, now)
		require.NoError(t, err)
		cmd, err := commands.NewDeleteRouteCommand(actor(t, access.Admin), r.ID())
		require.NoError(t, err)

		routes := new(MockRouteRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		expectTx(ctx, factory, uow, true)
		uow.On("RouteRepository").Return(routes).Once()
		routes.On("Get", ctx, r.ID()).Return(r, nil).Once()
		routes.On("Delete", ctx, r.ID()).Return(nil).Once()

		require.NoError(t, commands.NewDeleteRouteCommandHandler(routeFactory{factory}).Handle(ctx, cmd))
		routes.AssertExpectations(t)
	})

	t.Run("keeps a route in progress", func(t *testing.T) {
		ctx := t.Context()
		r, err := route.NewRoute(kernel.NewUUID(), now, kernel.NewUUID(), "Riverside", nil, now)
		require.NoError(t, err)
		require.NoError(t, r.SetStatus(route.InProgress, now))
		cmd, err := commands.NewDeleteRouteCommand(actor(t, access.Admin), r.ID())
		require.NoError(t, err)

		routes := new(MockRouteRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		expectTx(ctx, factory, uow, false)
		uow.On("RouteRepository").Return(routes).Once()
		routes.On("Get", ctx, r.ID()).Return(r, nil).Once()

		err = commands.NewDeleteRouteCommandHandler(routeFactory{factory}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		routes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
