package intake

import "encoding/json"

// The payload types mirror the ShopifyOrder schema component. Every optional field is
// a pointer so that absence and null stay distinguishable from zero values.

type orderPayload struct {
	ID                    *int64                 `json:"id"`
	OrderNumber           *int64                 `json:"order_number"`
	FulfillmentStatus     *string                `json:"fulfillment_status"`
	CancelReason          *string                `json:"cancel_reason"`
	CurrentTotalPrice     *string                `json:"current_total_price"`
	CurrentSubtotalPrice  *string                `json:"current_subtotal_price"`
	CurrentTotalDiscounts *string                `json:"current_total_discounts"`
	CurrentTotalTax       *string                `json:"current_total_tax"`
	Note                  *string                `json:"note"`
	Tags                  *string                `json:"tags"`
	Confirmed             *bool                  `json:"confirmed"`
	ContactEmail          *string                `json:"contact_email"`
	ProcessedAt           *string                `json:"processed_at"`
	BillingAddress        *addressPayload        `json:"billing_address"`
	ShippingAddress       *addressPayload        `json:"shipping_address"`
	Customer              *customerPayload       `json:"customer"`
	LineItems             []lineItemPayload      `json:"line_items"`
	ShippingLines         []shippingLinePayload  `json:"shipping_lines"`
	NoteAttributes        []noteAttributePayload `json:"note_attributes"`
}

type addressPayload struct {
	FirstName    *string         `json:"first_name"`
	LastName     *string         `json:"last_name"`
	Company      *string         `json:"company"`
	Address1     *string         `json:"address1"`
	Address2     *string         `json:"address2"`
	City         *string         `json:"city"`
	Province     *string         `json:"province"`
	ProvinceCode *string         `json:"province_code"`
	Country      *string         `json:"country"`
	CountryCode  *string         `json:"country_code"`
	Zip          *string         `json:"zip"`
	Phone        *string         `json:"phone"`
	Latitude     json.RawMessage `json:"latitude"`
	Longitude    json.RawMessage `json:"longitude"`
}

type customerPayload struct {
	Email         *string `json:"email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	State         *string `json:"state"`
	VerifiedEmail *bool   `json:"verified_email"`
	Phone         *string `json:"phone"`
	Tags          *string `json:"tags"`
	Currency      *string `json:"currency"`
}

type lineItemPayload struct {
	ID                  *int64            `json:"id"`
	ProductID           *int64            `json:"product_id"`
	VariantID           *int64            `json:"variant_id"`
	Title               *string           `json:"title"`
	VariantTitle        *string           `json:"variant_title"`
	SKU                 *string           `json:"sku"`
	Quantity            *int              `json:"quantity"`
	Price               *string           `json:"price"`
	TotalDiscount       *string           `json:"total_discount"`
	FulfillableQuantity *int              `json:"fulfillable_quantity"`
	FulfillmentStatus   *string           `json:"fulfillment_status"`
	Vendor              *string           `json:"vendor"`
	RequiresShipping    *bool             `json:"requires_shipping"`
	Taxable             *bool             `json:"taxable"`
	Properties          []propertyPayload `json:"properties"`
}

type propertyPayload struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

type shippingLinePayload struct {
	ID                *int64  `json:"id"`
	Code              *string `json:"code"`
	Title             *string `json:"title"`
	Price             *string `json:"price"`
	DiscountedPrice   *string `json:"discounted_price"`
	Source            *string `json:"source"`
	CarrierIdentifier *string `json:"carrier_identifier"`
}

type noteAttributePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
