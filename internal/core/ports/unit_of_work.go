package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Client code must explicitly
// manage the transaction lifecycle; repositories obtained after Begin share the
// transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CustomerRepository() CustomerRepository
	OrderRepository() OrderRepository
	StatusAuditRepository() StatusAuditRepository
	StagingRepository() StagingRepository
}
