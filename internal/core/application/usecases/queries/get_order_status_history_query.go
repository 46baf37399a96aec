package queries

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderStatusHistoryQueryIsNotConstructed = errors.New(
		"GetOrderStatusHistoryQuery must be created via NewGetOrderStatusHistoryQuery constructor",
	)
)

// GetOrderStatusHistoryQuery lists every status an order went through, oldest first.
//
// Example:
//
//	query, err := NewGetOrderStatusHistoryQuery(5001)
//	if err != nil {
//	    return err
//	}
//	history, err := NewGetOrderStatusHistoryQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to read order history: %w", err)
//	}
//	for _, entry := range history {
//	    fmt.Printf("%s %s by %s\n", entry.CreatedAt, entry.Status, entry.Actor)
//	}
type GetOrderStatusHistoryQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

// NewGetOrderStatusHistoryQuery requires a positive order id.
func NewGetOrderStatusHistoryQuery(orderID int64) (GetOrderStatusHistoryQuery, error) {
	if orderID <= 0 {
		return GetOrderStatusHistoryQuery{}, errs.NewValueIsRequiredError("order id")
	}
	return GetOrderStatusHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusHistoryQueryIsNotConstructed)
}

func (q GetOrderStatusHistoryQuery) OrderID() int64 { return q.orderID }

// StatusHistoryEntry is one audit row. LineItemID is nil for order history.
type StatusHistoryEntry struct {
	ID         int64
	OrderID    int64
	LineItemID *int64
	Status     string
	Actor      string
	Notes      string
	Metadata   map[string]any
	CreatedAt  time.Time
}
