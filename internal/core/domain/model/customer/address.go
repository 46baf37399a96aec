package customer

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// CoordinateScale matches the decimal(10,7) coordinate columns.
const CoordinateScale = 7

var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// AddressDetails is a postal address block as sent by the platform.
type AddressDetails struct {
	FirstName    *string
	LastName     *string
	Company      *string
	Address1     *string
	Address2     *string
	City         *string
	Province     *string
	ProvinceCode *string
	Country      *string
	CountryCode  *string
	Zip          *string
	Phone        *string

	// Latitude and Longitude are zero when the platform sent null or nothing.
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
}

// Address belongs to exactly one customer and is never updated after insertion.
type Address struct {
	id         int64
	customerID int64
	details    AddressDetails
	guard      guard.ConstructorGuard
}

func NewAddress(customerID int64, details AddressDetails) (*Address, error) {
	var errList []error
	if customerID <= 0 {
		errList = append(errList, errs.NewValueIsRequiredError("customer id"))
	}
	if details.Latitude.Abs().GreaterThan(decimal.NewFromInt(90)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("latitude", details.Latitude, -90, 90))
	}
	if details.Longitude.Abs().GreaterThan(decimal.NewFromInt(180)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("longitude", details.Longitude, -180, 180))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	details.Latitude = details.Latitude.Round(CoordinateScale)
	details.Longitude = details.Longitude.Round(CoordinateScale)
	return &Address{customerID: customerID, details: details, guard: guard.NewConstructorGuard()}, nil
}

func RestoreAddress(id, customerID int64, details AddressDetails) *Address {
	return &Address{id: id, customerID: customerID, details: details, guard: guard.NewConstructorGuard()}
}

func (a *Address) Validate() error {
	if a == nil {
		return ErrAddressIsNotConstructed
	}
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) ID() int64 { return a.id }
func (a *Address) CustomerID() int64 { return a.customerID }
func (a *Address) Details() AddressDetails { return a.details }
func (a *Address) AssignID(id int64) { a.id = id }
