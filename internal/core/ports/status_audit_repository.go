package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// StatusAuditRepository appends status history entries. There is no update or delete.
type StatusAuditRepository interface {
	AddOrderAudit(ctx context.Context, audit *order.OrderStatusAudit) error
	AddLineItemAudit(ctx context.Context, audit *order.LineItemStatusAudit) error
}
