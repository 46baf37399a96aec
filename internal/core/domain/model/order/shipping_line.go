package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrShippingLineIsNotConstructed = errors.New("ShippingLine must be created via NewShippingLine constructor")

// ShippingLineDetails describes a shipping method charged on the order.
type ShippingLineDetails struct {
	ExternalID        *string
	Code              *string
	Title             *string
	Price             *kernel.Money
	DiscountedPrice   *kernel.Money
	Source            *string
	CarrierIdentifier *string
}

// ShippingLine is immutable once stored.
type ShippingLine struct {
	id      int64
	details ShippingLineDetails
	guard   guard.ConstructorGuard
}

func NewShippingLine(details ShippingLineDetails) (*ShippingLine, error) {
	var errList []error
	for _, m := range []*kernel.Money{details.Price, details.DiscountedPrice} {
		if m != nil {
			errList = append(errList, m.Validate())
		}
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return &ShippingLine{details: details, guard: guard.NewConstructorGuard()}, nil
}

func RestoreShippingLine(id int64, details ShippingLineDetails) *ShippingLine {
	return &ShippingLine{id: id, details: details, guard: guard.NewConstructorGuard()}
}

func (s *ShippingLine) Validate() error {
	if s == nil {
		return ErrShippingLineIsNotConstructed
	}
	return s.guard.Validate(ErrShippingLineIsNotConstructed)
}

func (s *ShippingLine) ID() int64 { return s.id }
func (s *ShippingLine) Details() ShippingLineDetails { return s.details }
func (s *ShippingLine) AssignID(id int64) { s.id = id }
