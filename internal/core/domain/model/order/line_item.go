package order

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// DeliveryDatePropertyName is the line item property that overrides the order delivery date.
const DeliveryDatePropertyName = "Delivery Date"

// LineItemDetails holds the product attributes of a line item as sent by the platform.
// ProductID and VariantID are kept as text, the platform sends them as 64-bit numbers.
type LineItemDetails struct {
	ExternalID          *int64
	ProductID           *string
	VariantID           *string
	Title               *string
	VariantTitle        *string
	SKU                 *string
	Quantity            *int
	Price               *kernel.Money
	TotalDiscount       *kernel.Money
	FulfillableQuantity *int
	FulfillmentStatus   *string
	Vendor              *string
	RequiresShipping    *bool
	Taxable             *bool
}

// Milestones are the timestamps stamped when a line item first reaches a fulfillment step.
type Milestones struct {
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
}

// LineItem is one purchased product of an order with its own fulfillment status.
type LineItem struct {
	id      int64
	orderID int64

	details    LineItemDetails
	properties []*Property

	status          LineItemStatus
	statusUpdatedAt time.Time
	statusUpdatedBy string
	milestones      Milestones

	guard guard.ConstructorGuard
}

// NewLineItem creates a line item in LineItemStatusUnassigned.
func NewLineItem(details LineItemDetails, properties []*Property, at time.Time, actor string) (*LineItem, error) {
	li := &LineItem{
		status: LineItemStatusUnassigned,
		guard:  guard.NewConstructorGuard(),
	}

	var errList []error
	for _, m := range []*kernel.Money{details.Price, details.TotalDiscount} {
		if m != nil {
			errList = append(errList, m.Validate())
		}
	}
	if details.Quantity != nil && *details.Quantity < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", *details.Quantity, 0, "unbounded"))
	}
	for _, p := range properties {
		errList = append(errList, p.Validate())
	}
	errList = append(errList, li.setStatusStamp(at, actor))
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	li.details = details
	li.properties = properties
	return li, nil
}

// RestoreLineItem rebuilds a line item from storage.
func RestoreLineItem(
	id, orderID int64,
	details LineItemDetails,
	properties []*Property,
	status LineItemStatus,
	statusUpdatedAt time.Time,
	statusUpdatedBy string,
	milestones Milestones,
) (*LineItem, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return &LineItem{
		id:              id,
		orderID:         orderID,
		details:         details,
		properties:      properties,
		status:          status,
		statusUpdatedAt: statusUpdatedAt,
		statusUpdatedBy: statusUpdatedBy,
		milestones:      milestones,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (li *LineItem) Validate() error {
	if li == nil {
		return ErrLineItemIsNotConstructed
	}
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

func (li *LineItem) ID() int64 { return li.id }
func (li *LineItem) OrderID() int64 { return li.orderID }
func (li *LineItem) Details() LineItemDetails { return li.details }
func (li *LineItem) Properties() []*Property { return li.properties }
func (li *LineItem) Status() LineItemStatus { return li.status }
func (li *LineItem) StatusUpdatedAt() time.Time { return li.statusUpdatedAt }
func (li *LineItem) StatusUpdatedBy() string { return li.statusUpdatedBy }
func (li *LineItem) Milestones() Milestones { return li.milestones }

// AssignIdentity is called by the repository once the row is inserted.
func (li *LineItem) AssignIdentity(id, orderID int64) {
	li.id = id
	li.orderID = orderID
}

// DeliveryDateOverride returns the value of the first "Delivery Date" property, if any.
func (li *LineItem) DeliveryDateOverride() *string {
	for _, p := range li.properties {
		if p.Name() == DeliveryDatePropertyName {
			v := p.Value()
			return &v
		}
	}
	return nil
}

// ChangeStatus moves the line item to next if policy allows it. The milestone matching
// next is stamped with at the first time it is reached.
func (li *LineItem) ChangeStatus(policy TransitionPolicy, next LineItemStatus, at time.Time, actor string) error {
	if err := policy.AllowLineItem(li.status, next); err != nil {
		return err
	}
	if err := li.setStatusStamp(at, actor); err != nil {
		return err
	}
	li.status = next

	stamp := at
	switch next {
	case LineItemStatusAssigned:
		if li.milestones.AssignedAt == nil {
			li.milestones.AssignedAt = &stamp
		}
	case LineItemStatusStarted:
		if li.milestones.StartedAt == nil {
			li.milestones.StartedAt = &stamp
		}
	case LineItemStatusCancelled:
		if li.milestones.CancelledAt == nil {
			li.milestones.CancelledAt = &stamp
		}
	case LineItemStatusCompleted:
		if li.milestones.CompletedAt == nil {
			li.milestones.CompletedAt = &stamp
		}
	default:
	}
	return nil
}

func (li *LineItem) setStatusStamp(at time.Time, actor string) error {
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
	li.statusUpdatedAt = at
	li.statusUpdatedBy = actor
	return nil
}
