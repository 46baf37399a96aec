package postgres_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const actor = "tech@bloomthis.co"

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) writeOrder(uow ports.UnitOfWork, number string) *order.Order {
	ctx := suite.T().Context()

	email, err := kernel.NewEmail("jane@example.com")
	suite.Require().NoError(err)
	c, err := customer.NewCustomer(email, customer.Profile{})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CustomerRepository().Upsert(ctx, c))

	o, err := order.NewOrder(order.Details{ExternalID: 1, OrderNumber: number}, c.ID(), time.Now().UTC(), actor)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	audit, err := order.NewOrderStatusAudit(o.ID(), order.StatusPending, actor, order.IngestedOrderNote, nil, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.StatusAuditRepository().AddOrderAudit(ctx, audit))
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) count(table string) int64 {
	n, err := suite.database.Count(table)
	suite.Require().NoError(err)
	return n
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsEveryRepository() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.writeOrder(uow, "100000")
	suite.Zero(suite.count("orders"), "uncommitted rows are invisible outside the transaction")

	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), suite.count("customers"))
	suite.Equal(int64(1), suite.count("orders"))
	suite.Equal(int64(1), suite.count("order_status_audit"))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusPending, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := suite.T().Context()
	uow := postgres.NewGormUnitOfWork(suite.database.DB)
	suite.Require().NoError(uow.Begin(ctx))

	suite.writeOrder(uow, "100000")
	suite.Len(uow.TrackedAggregates(), 3)

	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(uow.TrackedAggregates())
	for _, table := range []string{"customers", "orders", "order_status_audit"} {
		suite.Zero(suite.count(table), table)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackAfterCommit_IsInvalid() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.writeOrder(uow, "100000")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
	suite.Equal(int64(1), suite.count("orders"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_IsInvalid() {
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(suite.T().Context()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBeginTwice_KeepsOneTransaction() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	suite.writeOrder(uow, "100000")
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Zero(suite.count("orders"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCancelledContext_AbortsTransaction() {
	ctx, cancel := context.WithCancel(suite.T().Context())
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.writeOrder(uow, "100000")

	cancel()

	suite.Require().Error(uow.Commit(ctx))
	suite.Zero(suite.count("orders"))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
