package customer

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Profile holds the customer attributes sent with every order. A nil field means the
// payload did not carry it; on re-ingestion only supplied fields replace stored ones,
// except the names which always follow the latest payload.
type Profile struct {
	FirstName     *string
	LastName      *string
	State         *string
	VerifiedEmail *bool
	Phone         *string
	Tags          *string
	Currency      *string
}

// Customer is identified by its normalized email.
type Customer struct {
	id        int64
	email     kernel.Email
	profile   Profile
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewCustomer(email kernel.Email, profile Profile) (*Customer, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}
	return &Customer{email: email, profile: profile, guard: guard.NewConstructorGuard()}, nil
}

// RestoreCustomer rebuilds a stored customer.
func RestoreCustomer(id int64, email kernel.Email, profile Profile, createdAt, updatedAt time.Time) *Customer {
	return &Customer{
		id:        id,
		email:     email,
		profile:   profile,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}
}

func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c *Customer) ID() int64 { return c.id }
func (c *Customer) Email() kernel.Email { return c.email }
func (c *Customer) Profile() Profile { return c.profile }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// Resolved is called by the repository after the upsert with the stored identity.
func (c *Customer) Resolved(id int64, createdAt, updatedAt time.Time) {
	c.id = id
	c.createdAt = createdAt
	c.updatedAt = updatedAt
}
