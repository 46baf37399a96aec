package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response. Field names the offending payload path
// when known.
type Error struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type AlreadyIngested struct {
	Status      string `json:"status"`
	OrderNumber string `json:"order_number,omitempty"`
}

type IngestedLineItem struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type IngestedOrder struct {
	ID                      int64              `json:"id"`
	OrderNumber             string             `json:"order_number"`
	CustomerID              int64              `json:"customer_id"`
	Status                  string             `json:"status"`
	TransformedDeliveryDate *time.Time         `json:"transformed_delivery_date"`
	MissingDeliveryFields   []string           `json:"missing_delivery_fields"`
	LineItems               []IngestedLineItem `json:"line_items"`
}

// StatusChange is the body of both status endpoints.
type StatusChange struct {
	Status   string         `json:"status"`
	Actor    string         `json:"actor"`
	Notes    string         `json:"notes"`
	Metadata map[string]any `json:"metadata"`
}

type StatusAudit struct {
	ID         int64          `json:"id"`
	OrderID    int64          `json:"order_id"`
	LineItemID *int64         `json:"line_item_id,omitempty"`
	Status     string         `json:"status"`
	Actor      string         `json:"actor"`
	Notes      string         `json:"notes,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func ingestedOrderFromResult(result commands.IngestOrderResult) IngestedOrder {
	o := result.Order
	items := make([]IngestedLineItem, 0, len(o.LineItems()))
	for _, item := range o.LineItems() {
		items = append(items, IngestedLineItem{ID: item.ID(), Status: item.Status().String()})
	}

	missing := result.MissingDeliveryFields
	if missing == nil {
		missing = []string{}
	}

	return IngestedOrder{
		ID:                      o.ID(),
		OrderNumber:             o.OrderNumber(),
		CustomerID:              o.CustomerID(),
		Status:                  o.Status().String(),
		TransformedDeliveryDate: o.TransformedDeliveryDate(),
		MissingDeliveryFields:   missing,
		LineItems:               items,
	}
}

func orderAuditResponse(a *order.OrderStatusAudit) StatusAudit {
	return StatusAudit{
		ID:        a.ID(),
		OrderID:   a.OrderID(),
		Status:    a.Status().String(),
		Actor:     a.Actor(),
		Notes:     a.Notes(),
		Metadata:  a.Metadata(),
		CreatedAt: a.CreatedAt(),
	}
}

func lineItemAuditResponse(a *order.LineItemStatusAudit) StatusAudit {
	lineItemID := a.LineItemID()
	return StatusAudit{
		ID:         a.ID(),
		OrderID:    a.OrderID(),
		LineItemID: &lineItemID,
		Status:     a.Status().String(),
		Actor:      a.Actor(),
		Notes:      a.Notes(),
		Metadata:   a.Metadata(),
		CreatedAt:  a.CreatedAt(),
	}
}

func historyResponse(entries []queries.StatusHistoryEntry) []StatusAudit {
	response := make([]StatusAudit, len(entries))
	for i, e := range entries {
		response[i] = StatusAudit{
			ID:         e.ID,
			OrderID:    e.OrderID,
			LineItemID: e.LineItemID,
			Status:     e.Status,
			Actor:      e.Actor,
			Notes:      e.Notes,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt,
		}
	}
	return response
}
