package queries

import (
	"context"
	"database/sql"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GetLineItemStatusHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetLineItemStatusHistoryQueryHandler(db *gorm.DB) GetLineItemStatusHistoryQueryHandler {
	return GetLineItemStatusHistoryQueryHandler{db: db}
}

// Handle returns the line_item_status_audit rows of one line item in insertion order.
func (h GetLineItemStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetLineItemStatusHistoryQuery,
) ([]StatusHistoryEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			line_item_id,
			order_id,
			status,
			actor,
			notes,
			metadata,
			created_at
		FROM line_item_status_audit
		WHERE line_item_id = ?
		ORDER BY id
	`, query.LineItemID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistory(rows, func(entry *StatusHistoryEntry, notes *sql.NullString, metadata *datatypes.JSONMap) []any {
		entry.LineItemID = new(int64)
		return []any{&entry.ID, entry.LineItemID, &entry.OrderID, &entry.Status, &entry.Actor, notes, metadata, &entry.CreatedAt}
	})
}
