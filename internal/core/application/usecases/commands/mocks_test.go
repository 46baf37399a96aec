package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) AddAddress(ctx context.Context, address *customer.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) AddLineItem(ctx context.Context, orderID int64, item *order.LineItem) error {
	args := m.Called(ctx, orderID, item)
	return args.Error(0)
}

func (m *MockOrderRepository) AddProperties(ctx context.Context, item *order.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) AddShippingLines(ctx context.Context, orderID int64, lines []*order.ShippingLine) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateDeliverySchedule(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateLineItemStatus(ctx context.Context, item *order.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetLineItemForUpdate(ctx context.Context, id int64) (*order.LineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.LineItem), args.Error(1)
}

type MockStatusAuditRepository struct{ mock.Mock }

func (m *MockStatusAuditRepository) AddOrderAudit(ctx context.Context, audit *order.OrderStatusAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockStatusAuditRepository) AddLineItemAudit(ctx context.Context, audit *order.LineItemStatusAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

type MockStagingRepository struct{ mock.Mock }

func (m *MockStagingRepository) Add(ctx context.Context, staged *ports.StagedOrder) error {
	args := m.Called(ctx, staged)
	return args.Error(0)
}

func (m *MockStagingRepository) Record(ctx context.Context, id uuid.UUID, outcome ports.StagedOutcome, at time.Time) error {
	args := m.Called(ctx, id, outcome, at)
	return args.Error(0)
}

func (m *MockStagingRepository) Get(ctx context.Context, id uuid.UUID) (*ports.StagedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.StagedOrder), args.Error(1)
}

func (m *MockStagingRepository) ListReplayable(ctx context.Context, limit, maxAttempts int) ([]*ports.StagedOrder, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ports.StagedOrder), args.Error(1)
}

// MockUoW implements every unit of work flavour of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) StatusAuditRepository() ports.StatusAuditRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusAuditRepository)
}

func (m *MockUoW) StagingRepository() ports.StagingRepository {
	args := m.Called()
	return args.Get(0).(ports.StagingRepository)
}

type MockIngestionUoWFactory struct{ mock.Mock }

func (m *MockIngestionUoWFactory) Create() commands.IngestionUoW {
	args := m.Called()
	return args.Get(0).(commands.IngestionUoW)
}

type MockStatusUoWFactory struct{ mock.Mock }

func (m *MockStatusUoWFactory) Create() commands.StatusUoW {
	args := m.Called()
	return args.Get(0).(commands.StatusUoW)
}

type MockStagingUoWFactory struct{ mock.Mock }

func (m *MockStagingUoWFactory) Create() commands.StagingUoW {
	args := m.Called()
	return args.Get(0).(commands.StagingUoW)
}
