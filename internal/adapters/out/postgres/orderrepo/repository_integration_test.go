package orderrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies order persistence against a real
// PostgreSQL migrated with the service schema.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	seq        int
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsAndTracks() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())

	suite.tracker.On("TrackAggregate", o.ID(), o).Once()

	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.Number(), got.Number())
	suite.Equal(o.Client(), got.Client())
	suite.Equal(order.Pending, got.Status())
	suite.Equal(order.Standard, got.ServiceType())
	suite.True(o.PickupWindow().Start().Equal(got.PickupWindow().Start()))
	suite.Require().Len(got.Items(), 2)
	suite.Equal("SHIRT", got.Items()[0].Code())
	suite.Equal("6.00", got.Items()[0].TotalPrice().String())
	suite.Require().Len(got.History(), 1)
	suite.Equal(order.Pending, got.History()[0].Status())
	suite.True(o.Pricing().Total().IsEqual(got.Pricing().Total()))
	suite.Empty(got.DomainEvents())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateNumber_Conflict() {
	ctx := suite.T().Context()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	first := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second, err := order.NewOrder(kernel.NewUUID(), first.Number(), suite.details(kernel.NewUUID()), nil, kernel.NewUUID(), now)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryAndPhotos() {
	ctx := suite.T().Context()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	driver := kernel.NewUUID()
	suite.Require().NoError(o.AssignToDriver(driver, kernel.NewUUID(), now.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.ConfirmPickup(order.PickupConfirmation{
		ActualBags: 3,
		Photos:     []order.PhotoUpload{{URL: "https://cdn.example/bag-1.jpg", Type: order.PhotoBefore}},
		Notes:      "gate code 1234",
	}, driver, now.Add(2*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Transit, got.Status())
	suite.Equal(3, got.ActualBags())
	suite.Require().NotNil(got.DeliverID())
	suite.Equal(driver, *got.DeliverID())
	suite.Contains(got.SpecialNotes(), "gate code 1234")

	suite.Require().Len(got.History(), 3)
	suite.Equal(order.Pending, got.History()[0].Status())
	suite.Equal(order.Assigned, got.History()[1].Status())
	suite.Equal(order.Transit, got.History()[2].Status())
	suite.Equal(driver, got.History()[2].ChangedBy())

	suite.Require().Len(got.Photos(), 1)
	suite.Equal(order.PhotoBefore, got.Photos()[0].Type())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_Missing_NotFound() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())

	err := suite.repository.Update(ctx, o)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing_NotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetMany_KeepsRequestedOrder() {
	ctx := suite.T().Context()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	a := suite.newOrder(kernel.NewUUID())
	b := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	got, err := suite.repository.GetMany(ctx, []kernel.UUID{b.ID(), a.ID()})
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal(b.ID(), got[0].ID())
	suite.Equal(a.ID(), got[1].ID())

	_, err = suite.repository.GetMany(ctx, []kernel.UUID{a.ID(), kernel.NewUUID()})
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFind_Filters() {
	ctx := suite.T().Context()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	client := kernel.NewUUID()
	mine := suite.newOrder(client)
	assigned := suite.newOrder(client)
	other := suite.newOrder(kernel.NewUUID())
	driver := kernel.NewUUID()
	suite.Require().NoError(assigned.AssignToDriver(driver, kernel.NewUUID(), now))
	for _, o := range []*order.Order{mine, assigned, other} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	byClient, err := suite.repository.Find(ctx, ports.OrderFilter{Client: &client})
	suite.Require().NoError(err)
	suite.Len(byClient, 2)

	status := order.Assigned
	byStatus, err := suite.repository.Find(ctx, ports.OrderFilter{Status: &status})
	suite.Require().NoError(err)
	suite.Require().Len(byStatus, 1)
	suite.Equal(assigned.ID(), byStatus[0].ID())

	byDriver, err := suite.repository.Find(ctx, ports.OrderFilter{DeliverID: &driver})
	suite.Require().NoError(err)
	suite.Require().Len(byDriver, 1)

	later := now.Add(time.Hour)
	none, err := suite.repository.Find(ctx, ports.OrderFilter{From: &later})
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDelete() {
	ctx := suite.T().Context()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(suite.repository.Delete(ctx, o.ID()))

	_, err := suite.repository.Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	err = suite.repository.Delete(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) details(client kernel.UUID) order.Details {
	window, err := order.NewPickupWindow(now.Add(24*time.Hour), now.Add(26*time.Hour))
	suite.Require().NoError(err)
	shirt, err := order.NewItem("SHIRT", "Shirt", 2, kernel.MustMoney("3.00"))
	suite.Require().NoError(err)
	sheet, err := order.NewItem("SHEET", "Bed sheet", 1, kernel.MustMoney("7.50"))
	suite.Require().NoError(err)

	return order.Details{
		Client:        client,
		ServiceType:   order.Standard,
		PickupDate:    now.Add(24 * time.Hour),
		PickupWindow:  window,
		EstimatedBags: 2,
		SpecialNotes:  "ring twice",
		Items:         []order.Item{shirt, sheet},
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(client kernel.UUID) *order.Order {
	suite.seq++
	number, err := order.ParseNumber(fmt.Sprintf("ORD-250512-%d", 1000+suite.seq))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), number, suite.details(client), nil, client, now)
	suite.Require().NoError(err)
	o.ClearDomainEvents()
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
