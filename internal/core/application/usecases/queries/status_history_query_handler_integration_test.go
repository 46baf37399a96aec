package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const actor = "tech@bloomthis.co"

type StatusHistoryQueryHandlerIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	audits   *auditrepo.GormStatusAuditRepository
	order    *order.Order
	item     *order.LineItem
	now      time.Time
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) SetupTest() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.database.Truncate())

	tracker := new(pgtest.MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything).Maybe()
	suite.audits = auditrepo.NewGormStatusAuditRepository(suite.database.DB, tracker)
	suite.now = time.Date(2024, 12, 20, 2, 15, 0, 0, time.UTC)

	email, err := kernel.NewEmail("jane@example.com")
	suite.Require().NoError(err)
	c, err := customer.NewCustomer(email, customer.Profile{})
	suite.Require().NoError(err)
	suite.Require().NoError(customerrepo.NewGormCustomerRepository(suite.database.DB, tracker).Upsert(ctx, c))

	orders := orderrepo.NewGormOrderRepository(suite.database.DB, tracker)
	suite.order, err = order.NewOrder(order.Details{ExternalID: 1, OrderNumber: "100000"}, c.ID(), suite.now, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(orders.Add(ctx, suite.order))
	suite.item, err = order.NewLineItem(order.LineItemDetails{}, nil, suite.now, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(orders.AddLineItem(ctx, suite.order.ID(), suite.item))
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) addOrderAudit(status order.Status, by, notes string, metadata map[string]any, at time.Time) {
	audit, err := order.NewOrderStatusAudit(suite.order.ID(), status, by, notes, metadata, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.audits.AddOrderAudit(suite.T().Context(), audit))
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TestOrderHistory_InsertionOrder() {
	// Same timestamp on purpose: the id decides the order.
	suite.addOrderAudit(order.StatusPending, actor, order.IngestedOrderNote, nil, suite.now)
	suite.addOrderAudit(order.StatusPreparing, "florist@bloomthis.co", "", map[string]any{"station": "KL-1"}, suite.now)
	suite.addOrderAudit(order.StatusPrepared, "florist@bloomthis.co", "ready", nil, suite.now.Add(-time.Hour))

	query, err := queries.NewGetOrderStatusHistoryQuery(suite.order.ID())
	suite.Require().NoError(err)

	history, err := queries.NewGetOrderStatusHistoryQueryHandler(suite.database.DB).Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	suite.Equal([]string{"PENDING", "PREPARING", "PREPARED"}, []string{history[0].Status, history[1].Status, history[2].Status})
	suite.Less(history[0].ID, history[1].ID)
	suite.Equal(order.IngestedOrderNote, history[0].Notes)
	suite.Nil(history[0].Metadata)
	suite.Nil(history[0].LineItemID)
	suite.Equal("KL-1", history[1].Metadata["station"])
	suite.Equal(suite.order.ID(), history[2].OrderID)
	suite.True(suite.now.Equal(history[0].CreatedAt))
	suite.Equal(time.UTC, history[0].CreatedAt.Location())
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TestOrderHistory_UnknownOrderIsEmpty() {
	query, err := queries.NewGetOrderStatusHistoryQuery(404)
	suite.Require().NoError(err)

	history, err := queries.NewGetOrderStatusHistoryQueryHandler(suite.database.DB).Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.NotNil(history)
	suite.Empty(history)
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TestLineItemHistory() {
	ctx := suite.T().Context()
	for _, status := range []order.LineItemStatus{order.LineItemStatusUnassigned, order.LineItemStatusAssigned} {
		audit, err := order.NewLineItemStatusAudit(suite.item.ID(), suite.order.ID(), status, actor, "", nil, suite.now)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.audits.AddLineItemAudit(ctx, audit))
	}

	query, err := queries.NewGetLineItemStatusHistoryQuery(suite.item.ID())
	suite.Require().NoError(err)

	history, err := queries.NewGetLineItemStatusHistoryQueryHandler(suite.database.DB).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal("UNASSIGNED", history[0].Status)
	suite.Equal("ASSIGNED", history[1].Status)
	suite.Require().NotNil(history[1].LineItemID)
	suite.Equal(suite.item.ID(), *history[1].LineItemID)
	suite.Equal(suite.order.ID(), history[1].OrderID)
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TestHandle_InvalidQuery() {
	result, err := queries.NewGetOrderStatusHistoryQueryHandler(suite.database.DB).Handle(suite.T().Context(), queries.GetOrderStatusHistoryQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetOrderStatusHistoryQueryIsNotConstructed)
	suite.Nil(result)
}

func (suite *StatusHistoryQueryHandlerIntegrationTestSuite) TestHandle_CancelledContext() {
	query, err := queries.NewGetOrderStatusHistoryQuery(suite.order.ID())
	suite.Require().NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := queries.NewGetOrderStatusHistoryQueryHandler(suite.database.DB).Handle(ctx, query)

	suite.Require().Error(err)
	suite.Nil(result)
}

func TestStatusHistoryQueryHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StatusHistoryQueryHandlerIntegrationTestSuite))
}
