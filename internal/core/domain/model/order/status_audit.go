package order

import (
	"errors"
	"maps"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// IngestedOrderNote is the note of the audit record seeded for every ingested order.
	IngestedOrderNote = "Order received from Shopify Webhook"

	// IngestedLineItemNote is the note of the audit record seeded for every ingested line item.
	IngestedLineItemNote = "Line item received from Shopify Webhook"
)

var (
	ErrOrderStatusAuditIsNotConstructed    = errors.New("OrderStatusAudit must be created via NewOrderStatusAudit constructor")
	ErrLineItemStatusAuditIsNotConstructed = errors.New("LineItemStatusAudit must be created via NewLineItemStatusAudit constructor")
)

// OrderStatusAudit is one immutable entry of an order's status history.
type OrderStatusAudit struct {
	id        int64
	orderID   int64
	status    Status
	actor     string
	notes     string
	metadata  map[string]any
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewOrderStatusAudit records that actor moved the order to status at the given moment.
// Notes and metadata are optional.
func NewOrderStatusAudit(
	orderID int64, status Status, actor, notes string, metadata map[string]any, at time.Time,
) (*OrderStatusAudit, error) {
	if err := errors.Join(
		status.Validate(),
		validateAuditStamp(orderID, "order id", actor, at),
	); err != nil {
		return nil, err
	}

	return &OrderStatusAudit{
		orderID:   orderID,
		status:    status,
		actor:     actor,
		notes:     notes,
		metadata:  maps.Clone(metadata),
		createdAt: at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrderStatusAudit rebuilds a stored audit entry.
func RestoreOrderStatusAudit(
	id, orderID int64, status Status, actor, notes string, metadata map[string]any, createdAt time.Time,
) *OrderStatusAudit {
	return &OrderStatusAudit{
		id: id, orderID: orderID, status: status, actor: actor, notes: notes,
		metadata: metadata, createdAt: createdAt, guard: guard.NewConstructorGuard(),
	}
}

func (a *OrderStatusAudit) Validate() error {
	if a == nil {
		return ErrOrderStatusAuditIsNotConstructed
	}
	return a.guard.Validate(ErrOrderStatusAuditIsNotConstructed)
}

func (a *OrderStatusAudit) ID() int64 { return a.id }
func (a *OrderStatusAudit) OrderID() int64 { return a.orderID }
func (a *OrderStatusAudit) Status() Status { return a.status }
func (a *OrderStatusAudit) Actor() string { return a.actor }
func (a *OrderStatusAudit) Notes() string { return a.notes }
func (a *OrderStatusAudit) Metadata() map[string]any { return maps.Clone(a.metadata) }
func (a *OrderStatusAudit) CreatedAt() time.Time { return a.createdAt }
func (a *OrderStatusAudit) AssignID(id int64) { a.id = id }

// LineItemStatusAudit is one immutable entry of a line item's status history. It also
// carries the order id so an order's whole line item history can be read at once.
type LineItemStatusAudit struct {
	id         int64
	lineItemID int64
	orderID    int64
	status     LineItemStatus
	actor      string
	notes      string
	metadata   map[string]any
	createdAt  time.Time
	guard      guard.ConstructorGuard
}

func NewLineItemStatusAudit(
	lineItemID, orderID int64, status LineItemStatus, actor, notes string, metadata map[string]any, at time.Time,
) (*LineItemStatusAudit, error) {
	var orderErr error
	if orderID <= 0 {
		orderErr = errs.NewValueIsRequiredError("order id")
	}
	if err := errors.Join(
		status.Validate(),
		orderErr,
		validateAuditStamp(lineItemID, "line item id", actor, at),
	); err != nil {
		return nil, err
	}

	return &LineItemStatusAudit{
		lineItemID: lineItemID,
		orderID:    orderID,
		status:     status,
		actor:      actor,
		notes:      notes,
		metadata:   maps.Clone(metadata),
		createdAt:  at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func RestoreLineItemStatusAudit(
	id, lineItemID, orderID int64, status LineItemStatus, actor, notes string, metadata map[string]any, createdAt time.Time,
) *LineItemStatusAudit {
	return &LineItemStatusAudit{
		id: id, lineItemID: lineItemID, orderID: orderID, status: status, actor: actor, notes: notes,
		metadata: metadata, createdAt: createdAt, guard: guard.NewConstructorGuard(),
	}
}

func (a *LineItemStatusAudit) Validate() error {
	if a == nil {
		return ErrLineItemStatusAuditIsNotConstructed
	}
	return a.guard.Validate(ErrLineItemStatusAuditIsNotConstructed)
}

func (a *LineItemStatusAudit) ID() int64 { return a.id }
func (a *LineItemStatusAudit) LineItemID() int64 { return a.lineItemID }
func (a *LineItemStatusAudit) OrderID() int64 { return a.orderID }
func (a *LineItemStatusAudit) Status() LineItemStatus { return a.status }
func (a *LineItemStatusAudit) Actor() string { return a.actor }
func (a *LineItemStatusAudit) Notes() string { return a.notes }
func (a *LineItemStatusAudit) Metadata() map[string]any { return maps.Clone(a.metadata) }
func (a *LineItemStatusAudit) CreatedAt() time.Time { return a.createdAt }
func (a *LineItemStatusAudit) AssignID(id int64) { a.id = id }

func validateAuditStamp(parentID int64, parentName, actor string, at time.Time) error {
	var errList []error
	if parentID <= 0 {
		errList = append(errList, errs.NewValueIsRequiredError(parentName))
	}
	if strings.TrimSpace(actor) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("actor"))
	}
	if at.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("created at"))
	}
	return errors.Join(errList...)
}
