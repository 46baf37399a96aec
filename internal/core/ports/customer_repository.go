// Package ports defines the persistence contracts of the intake and fulfillment core.
// Implementations live in internal/adapters/out/postgres; every repository obtained
// from a UnitOfWork runs inside that unit's transaction.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
)

// CustomerRepository resolves customers by email and stores their addresses.
type CustomerRepository interface {
	// Upsert inserts the customer or, when the email already exists, refreshes the
	// stored profile. The names and update timestamp are always overwritten; other
	// profile fields only when the incoming customer carries them. The stored id and
	// timestamps are set on c.
	Upsert(ctx context.Context, c *customer.Customer) error

	// AddAddress inserts one address row and sets its id.
	AddAddress(ctx context.Context, address *customer.Address) error

	// GetByEmail returns errs.ObjectNotFoundError when no customer has the email.
	GetByEmail(ctx context.Context, email kernel.Email) (*customer.Customer, error)
}
