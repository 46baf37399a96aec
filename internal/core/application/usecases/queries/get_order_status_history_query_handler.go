package queries

import (
	"context"
	"database/sql"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetOrderStatusHistoryQueryHandler reads order_status_audit. An order without history,
// or one that does not exist, yields an empty slice.
type GetOrderStatusHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStatusHistoryQueryHandler(db *gorm.DB) GetOrderStatusHistoryQueryHandler {
	return GetOrderStatusHistoryQueryHandler{db: db}
}

// Handle returns the entries in insertion order.
func (h GetOrderStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusHistoryQuery,
) ([]StatusHistoryEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			status,
			actor,
			notes,
			metadata,
			created_at
		FROM order_status_audit
		WHERE order_id = ?
		ORDER BY id
	`, query.OrderID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistory(rows, func(entry *StatusHistoryEntry, notes *sql.NullString, metadata *datatypes.JSONMap) []any {
		return []any{&entry.ID, &entry.OrderID, &entry.Status, &entry.Actor, notes, metadata, &entry.CreatedAt}
	})
}

// scanHistory reads every row with the destinations returned by dest. Notes and
// metadata columns are nullable.
func scanHistory(
	rows *sql.Rows,
	dest func(entry *StatusHistoryEntry, notes *sql.NullString, metadata *datatypes.JSONMap) []any,
) ([]StatusHistoryEntry, error) {
	entries := make([]StatusHistoryEntry, 0)

	for rows.Next() {
		var (
			entry    StatusHistoryEntry
			notes    sql.NullString
			metadata datatypes.JSONMap
		)
		if err := rows.Scan(dest(&entry, &notes, &metadata)...); err != nil {
			return nil, err
		}

		entry.Notes = notes.String
		if len(metadata) > 0 {
			entry.Metadata = map[string]any(metadata)
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
