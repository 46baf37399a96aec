package intake

import (
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

const (
	DeliveryDateAttribute    = "Delivery Date"
	DeliverySessionAttribute = "Delivery Session"
)

// OrderAggregate is the canonical form of one order payload. It is only ever produced
// by Normalizer.Normalize and holds everything the ingestion needs to persist.
type OrderAggregate struct {
	Order order.Details

	CustomerEmail kernel.Email
	Customer      customer.Profile

	ShippingAddress *customer.AddressDetails
	BillingAddress  *customer.AddressDetails

	LineItems     []LineItemInput
	ShippingLines []order.ShippingLineDetails

	// MissingDeliveryFields names the delivery note attributes the payload lacked,
	// in the order "Delivery Date", "Delivery Session".
	MissingDeliveryFields []string
}

// LineItemInput is one normalized line item with its properties.
type LineItemInput struct {
	Details    order.LineItemDetails
	Properties []PropertyInput
}

type PropertyInput struct {
	Name  string
	Value string
}

// HasAddressPair reports whether both address blocks are present. Addresses are
// stored only as a pair.
func (a OrderAggregate) HasAddressPair() bool {
	return a.ShippingAddress != nil && a.BillingAddress != nil
}

// IsDeliveryComplete reports whether both delivery attributes were supplied.
func (a OrderAggregate) IsDeliveryComplete() bool {
	return len(a.MissingDeliveryFields) == 0
}
