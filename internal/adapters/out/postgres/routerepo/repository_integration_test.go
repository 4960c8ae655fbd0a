package routerepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/adapters/out/postgres/routerepo"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC)

type RouteRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *routerepo.GormRouteRepository
	orders     *orderrepo.GormOrderRepository
	seq        int
}

func (suite *RouteRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *RouteRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.repository = routerepo.NewGormRouteRepository(suite.pg.DB, nil)
	suite.orders = orderrepo.NewGormOrderRepository(suite.pg.DB, nil)
}

func (suite *RouteRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *RouteRepositoryIntegrationTestSuite) TestAddAndGet_KeepsOrderSequence() {
	ctx := suite.T().Context()
	a, b := suite.storedOrder(), suite.storedOrder()
	r := suite.newRoute(kernel.NewUUID(), "North", now, b, a)

	suite.Require().NoError(suite.repository.Add(ctx, r))

	got, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(r.Driver(), got.Driver())
	suite.Equal("North", got.Area())
	suite.Equal(route.Planned, got.Status())
	suite.True(r.Date().Equal(got.Date()))
	suite.Equal([]kernel.UUID{b, a}, got.Orders())
}

func (suite *RouteRepositoryIntegrationTestSuite) TestUpdate_ReplacesOrdersAndStatus() {
	ctx := suite.T().Context()
	a, b, c := suite.storedOrder(), suite.storedOrder(), suite.storedOrder()
	r := suite.newRoute(kernel.NewUUID(), "North", now, a, b)
	suite.Require().NoError(suite.repository.Add(ctx, r))

	area := "South"
	_, err := r.Edit(route.Patch{Area: &area, Orders: []kernel.UUID{c}}, now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(r.SetStatus(route.InProgress, now.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, r))

	got, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal("South", got.Area())
	suite.Equal(route.InProgress, got.Status())
	suite.Equal([]kernel.UUID{c}, got.Orders())
	suite.True(now.Add(time.Hour).Equal(got.UpdatedAt()))
}

func (suite *RouteRepositoryIntegrationTestSuite) TestUpdate_Missing_NotFound() {
	r := suite.newRoute(kernel.NewUUID(), "North", now)

	err := suite.repository.Update(suite.T().Context(), r)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RouteRepositoryIntegrationTestSuite) TestFind_Filters() {
	ctx := suite.T().Context()
	driver := kernel.NewUUID()
	today := suite.newRoute(driver, "North", now)
	tomorrow := suite.newRoute(driver, "North", now.Add(24*time.Hour))
	elsewhere := suite.newRoute(kernel.NewUUID(), "South", now)
	for _, r := range []*route.Route{today, tomorrow, elsewhere} {
		suite.Require().NoError(suite.repository.Add(ctx, r))
	}

	mine, err := suite.repository.Find(ctx, ports.RouteFilter{Driver: &driver})
	suite.Require().NoError(err)
	suite.Require().Len(mine, 2)
	suite.Equal(tomorrow.ID(), mine[0].ID(), "latest route date first")

	day := time.Date(2025, 5, 12, 23, 0, 0, 0, time.UTC)
	onDay, err := suite.repository.Find(ctx, ports.RouteFilter{Date: &day})
	suite.Require().NoError(err)
	suite.Len(onDay, 2)

	area := "South"
	south, err := suite.repository.Find(ctx, ports.RouteFilter{Area: &area})
	suite.Require().NoError(err)
	suite.Require().Len(south, 1)
	suite.Equal(elsewhere.ID(), south[0].ID())

	status := route.Completed
	done, err := suite.repository.Find(ctx, ports.RouteFilter{Status: &status})
	suite.Require().NoError(err)
	suite.Empty(done)
}

func (suite *RouteRepositoryIntegrationTestSuite) TestDelete_KeepsOrders() {
	ctx := suite.T().Context()
	a := suite.storedOrder()
	r := suite.newRoute(kernel.NewUUID(), "North", now, a)
	suite.Require().NoError(suite.repository.Add(ctx, r))

	suite.Require().NoError(suite.repository.Delete(ctx, r.ID()))

	_, err := suite.repository.Get(ctx, r.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.orders.Get(ctx, a)
	suite.Require().NoError(err)

	err = suite.repository.Delete(ctx, r.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RouteRepositoryIntegrationTestSuite) newRoute(driver kernel.UUID, area string, date time.Time, orders ...kernel.UUID) *route.Route {
	r, err := route.NewRoute(kernel.NewUUID(), date, driver, area, orders, now)
	suite.Require().NoError(err)
	return r
}

func (suite *RouteRepositoryIntegrationTestSuite) storedOrder() kernel.UUID {
	suite.seq++
	number, err := order.ParseNumber(fmt.Sprintf("ORD-250512-%d", 1000+suite.seq))
	suite.Require().NoError(err)
	window, err := order.NewPickupWindow(now, now.Add(2*time.Hour))
	suite.Require().NoError(err)

	client := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), number, order.Details{
		Client:        client,
		ServiceType:   order.Express,
		PickupDate:    now,
		PickupWindow:  window,
		EstimatedBags: 1,
	}, nil, client, now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(suite.T().Context(), o))
	return o.ID()
}

func TestRouteRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RouteRepositoryIntegrationTestSuite))
}
