// Package customerrepo persists customers and their addresses.
package customerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CustomerDTO is one row of customers. Email is the natural key.
type CustomerDTO struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Email         string `gorm:"type:text;not null;uniqueIndex:idx_customers_email"`
	FirstName     *string
	LastName      *string
	State         *string
	VerifiedEmail *bool
	Phone         *string
	Tags          *string
	Currency      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (CustomerDTO) TableName() string {
	return "customers"
}

// AddressDTO is one row of addresses.
type AddressDTO struct {
	ID           int64        `gorm:"primaryKey;autoIncrement"`
	CustomerID   int64        `gorm:"not null;index"`
	Customer     *CustomerDTO `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
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
	Latitude     decimal.Decimal `gorm:"type:decimal(10,7);not null;default:0"`
	Longitude    decimal.Decimal `gorm:"type:decimal(10,7);not null;default:0"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

func customerFromDomain(c *customer.Customer) CustomerDTO {
	p := c.Profile()
	return CustomerDTO{
		ID:            c.ID(),
		Email:         c.Email().String(),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		State:         p.State,
		VerifiedEmail: p.VerifiedEmail,
		Phone:         p.Phone,
		Tags:          p.Tags,
		Currency:      p.Currency,
	}
}

func customerToDomain(dto CustomerDTO) (*customer.Customer, error) {
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	return customer.RestoreCustomer(dto.ID, email, customer.Profile{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		State:         dto.State,
		VerifiedEmail: dto.VerifiedEmail,
		Phone:         dto.Phone,
		Tags:          dto.Tags,
		Currency:      dto.Currency,
	}, dto.CreatedAt, dto.UpdatedAt), nil
}

func addressFromDomain(a *customer.Address) AddressDTO {
	d := a.Details()
	return AddressDTO{
		ID:           a.ID(),
		CustomerID:   a.CustomerID(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Company:      d.Company,
		Address1:     d.Address1,
		Address2:     d.Address2,
		City:         d.City,
		Province:     d.Province,
		ProvinceCode: d.ProvinceCode,
		Country:      d.Country,
		CountryCode:  d.CountryCode,
		Zip:          d.Zip,
		Phone:        d.Phone,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
	}
}

func addressToDomain(dto AddressDTO) *customer.Address {
	return customer.RestoreAddress(dto.ID, dto.CustomerID, customer.AddressDetails{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Company:      dto.Company,
		Address1:     dto.Address1,
		Address2:     dto.Address2,
		City:         dto.City,
		Province:     dto.Province,
		ProvinceCode: dto.ProvinceCode,
		Country:      dto.Country,
		CountryCode:  dto.CountryCode,
		Zip:          dto.Zip,
		Phone:        dto.Phone,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
	})
}
