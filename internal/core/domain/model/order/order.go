package order

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details holds the descriptive order attributes copied from the commerce platform.
// They are written once at ingestion and never changed by the fulfillment lifecycle.
type Details struct {
	ExternalID            int64
	OrderNumber           string
	FulfillmentStatus     *string
	CancelReason          *string
	CurrentTotalPrice     *kernel.Money
	CurrentSubtotalPrice  *kernel.Money
	CurrentTotalDiscounts *kernel.Money
	CurrentTotalTax       *kernel.Money
	Note                  *string
	Tags                  *string
	Confirmed             *bool
	ContactEmail          *string
	ProcessedAt           *time.Time

	// DeliveryDate and DeliverySession keep the note attribute text as received.
	DeliveryDate    *string
	DeliverySession *string

	// RawBody is the payload the order was normalized from.
	RawBody []byte
}

func (d Details) validate() error {
	var errList []error
	if d.ExternalID <= 0 {
		errList = append(errList, errs.NewValueIsRequiredError("external id"))
	}
	if strings.TrimSpace(d.OrderNumber) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("order number"))
	}
	for _, m := range []*kernel.Money{
		d.CurrentTotalPrice, d.CurrentSubtotalPrice, d.CurrentTotalDiscounts, d.CurrentTotalTax,
	} {
		if m != nil {
			errList = append(errList, m.Validate())
		}
	}
	return errors.Join(errList...)
}

// Order is the aggregate root of one ingested order. It owns its line items and
// shipping lines and carries the order level fulfillment status.
//
// Order follows these invariants:
//   - Status starts at StatusPending and changes only through ChangeStatus
//   - Every status change records who made it and when
//   - Shipping and billing address references are either both set or both nil
type Order struct {
	id         int64
	customerID int64

	shippingAddressID *int64
	billingAddressID  *int64

	details Details

	transformedDeliveryDate *time.Time

	status          Status
	statusUpdatedAt time.Time
	statusUpdatedBy string

	lineItems     []*LineItem
	shippingLines []*ShippingLine

	guard guard.ConstructorGuard
}

// NewOrder creates an order in StatusPending for the given customer. The moment and
// actor of the initial state are the ones the seeded audit record must carry.
//
// Example:
//
//	o, err := order.NewOrder(details, customerID, time.Now(), "tech@bloomthis.co")
//	if err != nil {
//	    return err
//	}
func NewOrder(details Details, customerID int64, at time.Time, actor string) (*Order, error) {
	o := &Order{
		status: StatusPending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		details.validate(),
		o.setCustomerID(customerID),
		o.setStatusStamp(at, actor),
	); err != nil {
		return nil, err
	}
	o.details = details

	return o, nil
}

// RestoreOrder rebuilds an order from storage. No lifecycle rule is applied.
func RestoreOrder(
	id int64,
	customerID int64,
	shippingAddressID, billingAddressID *int64,
	details Details,
	transformedDeliveryDate *time.Time,
	status Status,
	statusUpdatedAt time.Time,
	statusUpdatedBy string,
	lineItems []*LineItem,
	shippingLines []*ShippingLine,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:                      id,
		customerID:              customerID,
		shippingAddressID:       shippingAddressID,
		billingAddressID:        billingAddressID,
		details:                 details,
		transformedDeliveryDate: transformedDeliveryDate,
		status:                  status,
		statusUpdatedAt:         statusUpdatedAt,
		statusUpdatedBy:         statusUpdatedBy,
		lineItems:               lineItems,
		shippingLines:           shippingLines,
		guard:                   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() int64 { return o.id }
func (o *Order) CustomerID() int64 { return o.customerID }
func (o *Order) ShippingAddressID() *int64 { return o.shippingAddressID }
func (o *Order) BillingAddressID() *int64 { return o.billingAddressID }
func (o *Order) Details() Details { return o.details }
func (o *Order) OrderNumber() string { return o.details.OrderNumber }
func (o *Order) TransformedDeliveryDate() *time.Time { return o.transformedDeliveryDate }
func (o *Order) Status() Status { return o.status }
func (o *Order) StatusUpdatedAt() time.Time { return o.statusUpdatedAt }
func (o *Order) StatusUpdatedBy() string { return o.statusUpdatedBy }

// LineItems returns the line items in payload order.
func (o *Order) LineItems() []*LineItem {
	return o.lineItems
}

// ShippingLines returns the shipping lines in payload order.
func (o *Order) ShippingLines() []*ShippingLine {
	return o.shippingLines
}

// AssignID is called by the repository once the row identity is known.
func (o *Order) AssignID(id int64) {
	o.id = id
}

// UseAddresses sets both address references. Passing a single address is rejected:
// an order has either both or none.
func (o *Order) UseAddresses(shippingAddressID, billingAddressID int64) error {
	if shippingAddressID <= 0 || billingAddressID <= 0 {
		return errs.NewValueIsInvalidError("shipping and billing address ids must both be set")
	}
	o.shippingAddressID = &shippingAddressID
	o.billingAddressID = &billingAddressID
	return nil
}

// ScheduleDelivery sets the concrete delivery moment derived from the delivery text fields.
// A nil value clears it.
func (o *Order) ScheduleDelivery(at *time.Time) {
	o.transformedDeliveryDate = at
}

// AddLineItem appends a line item. Line items are kept in the order they were received.
func (o *Order) AddLineItem(item *LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	o.lineItems = append(o.lineItems, item)
	return nil
}

// AddShippingLine appends a shipping line.
func (o *Order) AddShippingLine(line *ShippingLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	o.shippingLines = append(o.shippingLines, line)
	return nil
}

// ChangeStatus moves the order to next if policy allows it, stamping actor and time.
// The caller must persist a matching OrderStatusAudit in the same transaction.
func (o *Order) ChangeStatus(policy TransitionPolicy, next Status, at time.Time, actor string) error {
	if err := policy.AllowOrder(o.status, next); err != nil {
		return err
	}
	if err := o.setStatusStamp(at, actor); err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) setCustomerID(customerID int64) error {
	if customerID <= 0 {
		return errs.NewValueIsRequiredError("customer id")
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setStatusStamp(at time.Time, actor string) error {
	var errList []error
	if at.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("status updated at"))
	}
	if strings.TrimSpace(actor) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("actor"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	o.statusUpdatedAt = at
	o.statusUpdatedBy = actor
	return nil
}
