package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists the order graph. Writes are deliberately fine grained so the
// ingestion can interleave them with audit writes in a fixed causal order.
type OrderRepository interface {
	// Add inserts the order row and sets its id. A taken order number yields
	// errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// AddLineItem inserts the line item row of an already stored order and sets its ids.
	// Properties are written separately by AddProperties.
	AddLineItem(ctx context.Context, orderID int64, item *order.LineItem) error

	// AddProperties inserts the properties of a stored line item.
	AddProperties(ctx context.Context, item *order.LineItem) error

	// AddShippingLines inserts the shipping lines of a stored order.
	AddShippingLines(ctx context.Context, orderID int64, lines []*order.ShippingLine) error

	// UpdateDeliverySchedule writes the transformed delivery date of a stored order.
	UpdateDeliverySchedule(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus writes status, status_updated_at and status_updated_by.
	UpdateStatus(ctx context.Context, aggregate *order.Order) error

	// UpdateLineItemStatus writes the status fields and milestones of a line item.
	UpdateLineItemStatus(ctx context.Context, item *order.LineItem) error

	// Get loads an order with its line items, properties and shipping lines.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetForUpdate loads the order row (without children) and locks it until the
	// transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// GetLineItemForUpdate loads a line item row and locks it until the transaction ends.
	GetLineItemForUpdate(ctx context.Context, id int64) (*order.LineItem, error)
}
