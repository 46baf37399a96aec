package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/api"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shopspring/decimal"
)

// OrderSchemaName is the schema component payloads are validated against.
const OrderSchemaName = "ShopifyOrder"

// Normalizer validates raw order payloads and maps them to OrderAggregate. It performs
// no I/O and is safe for concurrent use.
type Normalizer struct {
	schema *openapi3.Schema
}

// NewNormalizer builds a Normalizer from the embedded OpenAPI document.
func NewNormalizer() (*Normalizer, error) {
	return NewNormalizerFromSpec(api.Spec)
}

// NewNormalizerFromSpec builds a Normalizer from an OpenAPI document that defines the
// OrderSchemaName component.
func NewNormalizerFromSpec(spec []byte) (*Normalizer, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	ref, ok := doc.Components.Schemas[OrderSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi document has no %q schema", OrderSchemaName)
	}
	return &Normalizer{schema: ref.Value}, nil
}

// Normalize validates raw against the order schema and maps it to an OrderAggregate.
// The returned error is a *PayloadError describing the first offending field.
//
// Example:
//
//	agg, err := normalizer.Normalize(body)
//	if errors.Is(err, intake.ErrPayloadIsInvalid) {
//	    // reject, do not retry
//	}
func (n *Normalizer) Normalize(raw []byte) (OrderAggregate, error) {
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return OrderAggregate{}, newPayloadError("payload",
			errs.NewValueIsInvalidErrorWithCause("payload", fmt.Errorf("not a JSON document: %w", err)))
	}

	if err := n.schema.VisitJSON(document); err != nil {
		return OrderAggregate{}, schemaViolation(err)
	}

	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return OrderAggregate{}, newPayloadError("payload", errs.NewValueIsInvalidErrorWithCause("payload", err))
	}

	agg, err := mapOrder(p)
	if err != nil {
		return OrderAggregate{}, err
	}
	agg.Order.RawBody = bytes.Clone(raw)
	return agg, nil
}

func schemaViolation(err error) error {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return newPayloadError("payload", errs.NewValueIsInvalidErrorWithCause("payload", err))
	}

	field := fieldPath(schemaErr.JSONPointer())
	if schemaErr.SchemaField == "required" {
		return newPayloadError(field, errs.NewValueIsRequiredError(field))
	}
	return newPayloadError(field, errs.NewValueIsInvalidErrorWithCause(field, errors.New(schemaErr.Reason)))
}

// fieldPath renders a JSON pointer as "line_items[0].quantity".
func fieldPath(pointer []string) string {
	if len(pointer) == 0 {
		return "payload"
	}

	var b strings.Builder
	for _, segment := range pointer {
		if _, err := strconv.Atoi(segment); err == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func mapOrder(p orderPayload) (OrderAggregate, error) {
	var agg OrderAggregate

	if p.ID == nil {
		return agg, newPayloadError("id", errs.NewValueIsRequiredError("id"))
	}
	if p.OrderNumber == nil {
		return agg, newPayloadError("order_number", errs.NewValueIsRequiredError("order_number"))
	}

	details := order.Details{
		ExternalID:        *p.ID,
		OrderNumber:       strconv.FormatInt(*p.OrderNumber, 10),
		FulfillmentStatus: p.FulfillmentStatus,
		CancelReason:      p.CancelReason,
		Note:              p.Note,
		Tags:              p.Tags,
		Confirmed:         p.Confirmed,
		ContactEmail:      p.ContactEmail,
	}

	var err error
	if details.CurrentTotalPrice, err = optionalMoney("current_total_price", p.CurrentTotalPrice); err != nil {
		return agg, err
	}
	if details.CurrentSubtotalPrice, err = optionalMoney("current_subtotal_price", p.CurrentSubtotalPrice); err != nil {
		return agg, err
	}
	if details.CurrentTotalDiscounts, err = optionalMoney("current_total_discounts", p.CurrentTotalDiscounts); err != nil {
		return agg, err
	}
	if details.CurrentTotalTax, err = optionalMoney("current_total_tax", p.CurrentTotalTax); err != nil {
		return agg, err
	}
	if details.ProcessedAt, err = optionalTime("processed_at", p.ProcessedAt); err != nil {
		return agg, err
	}

	details.DeliveryDate, details.DeliverySession = deliveryAttributes(p.NoteAttributes)
	if details.DeliveryDate == nil {
		agg.MissingDeliveryFields = append(agg.MissingDeliveryFields, DeliveryDateAttribute)
	}
	if details.DeliverySession == nil {
		agg.MissingDeliveryFields = append(agg.MissingDeliveryFields, DeliverySessionAttribute)
	}
	agg.Order = details

	if agg.CustomerEmail, err = customerEmail(p); err != nil {
		return agg, err
	}
	if p.Customer != nil {
		agg.Customer = customer.Profile{
			FirstName:     p.Customer.FirstName,
			LastName:      p.Customer.LastName,
			State:         p.Customer.State,
			VerifiedEmail: p.Customer.VerifiedEmail,
			Phone:         p.Customer.Phone,
			Tags:          p.Customer.Tags,
			Currency:      p.Customer.Currency,
		}
	}

	if agg.ShippingAddress, err = mapAddress("shipping_address", p.ShippingAddress); err != nil {
		return agg, err
	}
	if agg.BillingAddress, err = mapAddress("billing_address", p.BillingAddress); err != nil {
		return agg, err
	}

	agg.LineItems = make([]LineItemInput, 0, len(p.LineItems))
	for i, item := range p.LineItems {
		input, itemErr := mapLineItem(fmt.Sprintf("line_items[%d]", i), item)
		if itemErr != nil {
			return agg, itemErr
		}
		agg.LineItems = append(agg.LineItems, input)
	}

	for i, line := range p.ShippingLines {
		shipping, lineErr := mapShippingLine(fmt.Sprintf("shipping_lines[%d]", i), line)
		if lineErr != nil {
			return agg, lineErr
		}
		agg.ShippingLines = append(agg.ShippingLines, shipping)
	}

	return agg, nil
}

// deliveryAttributes extracts the two delivery note attributes. The last occurrence of a
// name wins and an empty value counts as absent.
func deliveryAttributes(attributes []noteAttributePayload) (date, session *string) {
	var dateValue, sessionValue string
	for _, attr := range attributes {
		switch attr.Name {
		case DeliveryDateAttribute:
			dateValue = attr.Value
		case DeliverySessionAttribute:
			sessionValue = attr.Value
		}
	}
	if dateValue != "" {
		date = &dateValue
	}
	if sessionValue != "" {
		session = &sessionValue
	}
	return date, session
}

// customerEmail resolves the upsert key: customer.email, else contact_email.
func customerEmail(p orderPayload) (kernel.Email, error) {
	field, value := "customer.email", ""
	switch {
	case p.Customer != nil && !isBlank(p.Customer.Email):
		value = *p.Customer.Email
	case !isBlank(p.ContactEmail):
		field, value = "contact_email", *p.ContactEmail
	default:
		return kernel.Email{}, newPayloadError("customer.email", errs.NewValueIsRequiredError("customer.email"))
	}

	email, err := kernel.NewEmail(value)
	if err != nil {
		return kernel.Email{}, newPayloadError(field, errs.NewValueIsInvalidErrorWithCause(field, err))
	}
	return email, nil
}

func mapAddress(field string, a *addressPayload) (*customer.AddressDetails, error) {
	if a == nil {
		return nil, nil //nolint:nilnil // an absent block is not an error
	}

	lat, err := coordinate(field+".latitude", a.Latitude)
	if err != nil {
		return nil, err
	}
	lon, err := coordinate(field+".longitude", a.Longitude)
	if err != nil {
		return nil, err
	}

	return &customer.AddressDetails{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		Address1:     a.Address1,
		Address2:     a.Address2,
		City:         a.City,
		Province:     a.Province,
		ProvinceCode: a.ProvinceCode,
		Country:      a.Country,
		CountryCode:  a.CountryCode,
		Zip:          a.Zip,
		Phone:        a.Phone,
		Latitude:     lat,
		Longitude:    lon,
	}, nil
}

// coordinate accepts a JSON number, a decimal string or null. Null, absent and blank
// values become zero.
func coordinate(field string, raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, newPayloadError(field, errs.NewValueIsInvalidErrorWithCause(field, err))
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return decimal.Zero, nil
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, newPayloadError(field,
			errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("%q is not a decimal", text)))
	}
	return d, nil
}

func mapLineItem(field string, item lineItemPayload) (LineItemInput, error) {
	details := order.LineItemDetails{
		ExternalID:          item.ID,
		ProductID:           formatID(item.ProductID),
		VariantID:           formatID(item.VariantID),
		Title:               item.Title,
		VariantTitle:        item.VariantTitle,
		SKU:                 item.SKU,
		Quantity:            item.Quantity,
		FulfillableQuantity: item.FulfillableQuantity,
		FulfillmentStatus:   item.FulfillmentStatus,
		Vendor:              item.Vendor,
		RequiresShipping:    item.RequiresShipping,
		Taxable:             item.Taxable,
	}

	var err error
	if details.Price, err = optionalMoney(field+".price", item.Price); err != nil {
		return LineItemInput{}, err
	}
	if details.TotalDiscount, err = optionalMoney(field+".total_discount", item.TotalDiscount); err != nil {
		return LineItemInput{}, err
	}

	properties := make([]PropertyInput, 0, len(item.Properties))
	for _, prop := range item.Properties {
		properties = append(properties, PropertyInput{Name: valueOf(prop.Name), Value: valueOf(prop.Value)})
	}

	return LineItemInput{Details: details, Properties: properties}, nil
}

func mapShippingLine(field string, line shippingLinePayload) (order.ShippingLineDetails, error) {
	details := order.ShippingLineDetails{
		ExternalID:        formatID(line.ID),
		Code:              line.Code,
		Title:             line.Title,
		Source:            line.Source,
		CarrierIdentifier: line.CarrierIdentifier,
	}

	var err error
	if details.Price, err = optionalMoney(field+".price", line.Price); err != nil {
		return order.ShippingLineDetails{}, err
	}
	if details.DiscountedPrice, err = optionalMoney(field+".discounted_price", line.DiscountedPrice); err != nil {
		return order.ShippingLineDetails{}, err
	}
	return details, nil
}

// optionalMoney parses a decimal string. Nil and blank values stay absent.
func optionalMoney(field string, value *string) (*kernel.Money, error) {
	if isBlank(value) {
		return nil, nil //nolint:nilnil // absent amount
	}
	m, err := kernel.NewMoney(*value)
	if err != nil {
		return nil, newPayloadError(field, errs.NewValueIsInvalidErrorWithCause(field, err))
	}
	return &m, nil
}

func optionalTime(field string, value *string) (*time.Time, error) {
	if isBlank(value) {
		return nil, nil //nolint:nilnil // absent timestamp
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil, newPayloadError(field, errs.NewValueIsInvalidErrorWithCause(field, err))
	}
	return &t, nil
}

func formatID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
