// Package postgres provides the GORM implementation of the unit of work. One
// GormUnitOfWork owns at most one transaction at a time; repositories handed out
// after Begin run their statements inside it, before Begin they use the plain
// connection.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction, which the
// deferred call discards.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/stagingrepo"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with no transaction and no tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return NewGormUnitOfWork(f.db)
}

// GormUnitOfWork coordinates one database transaction and records every aggregate
// the repositories wrote through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []any
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                db,
		trackedAggregates: make([]any, 0),
	}
}

// Begin starts the transaction. Calling it again while a transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the open transaction and forgets the tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StatusAuditRepository() ports.StatusAuditRepository {
	return auditrepo.NewGormStatusAuditRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StagingRepository() ports.StagingRepository {
	return stagingrepo.NewGormStagingRepository(uow.conn())
}

// TrackAggregate is called by the repositories after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, aggregate)
}

// TrackedAggregates returns the aggregates written since the unit of work was created
// or last rolled back.
func (uow *GormUnitOfWork) TrackedAggregates() []any {
	out := make([]any, len(uow.trackedAggregates))
	copy(out, uow.trackedAggregates)
	return out
}
