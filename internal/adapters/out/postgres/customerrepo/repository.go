package customerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate any)
}

func NewGormCustomerRepository(db *gorm.DB, tracker aggregateTracker) *GormCustomerRepository {
	return &GormCustomerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert runs INSERT ... ON CONFLICT (email) DO UPDATE. first_name, last_name and
// updated_at always take the incoming values; phone, tags, currency, state and
// verified_email only when the incoming profile supplies them.
func (r *GormCustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := customerFromDomain(c)
	dto.ID = 0

	columns := []string{"first_name", "last_name", "updated_at"}
	p := c.Profile()
	if p.Phone != nil {
		columns = append(columns, "phone")
	}
	if p.Tags != nil {
		columns = append(columns, "tags")
	}
	if p.Currency != nil {
		columns = append(columns, "currency")
	}
	if p.State != nil {
		columns = append(columns, "state")
	}
	if p.VerifiedEmail != nil {
		columns = append(columns, "verified_email")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&dto).Error
	if err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("customer", c.Email().String(), err)
		}
		return err
	}

	// The row may predate this upsert, read back its identity and timestamps.
	var stored CustomerDTO
	if err := r.db.WithContext(ctx).Where("email = ?", dto.Email).First(&stored).Error; err != nil {
		return err
	}
	c.Resolved(stored.ID, stored.CreatedAt, stored.UpdatedAt)

	r.tracker.TrackAggregate(c)
	return nil
}

// AddAddress inserts one immutable address row.
func (r *GormCustomerRepository) AddAddress(ctx context.Context, address *customer.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	dto := addressFromDomain(address)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	address.AssignID(dto.ID)

	r.tracker.TrackAggregate(address)
	return nil
}

func (r *GormCustomerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*customer.Customer, error) {
	var dto CustomerDTO
	err := r.db.WithContext(ctx).Where("email = ?", email.String()).First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("email", email.String())
		}
		return nil, err
	}
	return customerToDomain(dto)
}

// GetAddresses returns the addresses of a customer in insertion order.
func (r *GormCustomerRepository) GetAddresses(ctx context.Context, customerID int64) ([]*customer.Address, error) {
	var dtos []AddressDTO
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	addresses := make([]*customer.Address, 0, len(dtos))
	for _, dto := range dtos {
		addresses = append(addresses, addressToDomain(dto))
	}
	return addresses, nil
}
