// Package auditrepo appends order and line item status history rows.
package auditrepo

import (
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/datatypes"
)

// OrderStatusAuditDTO is one row of order_status_audit.
type OrderStatusAuditDTO struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	OrderID   int64               `gorm:"not null;index"`
	Order     *orderrepo.OrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Status    string              `gorm:"type:text;not null"`
	Actor     string              `gorm:"type:text;not null"`
	Notes     string              `gorm:"type:text"`
	Metadata  datatypes.JSONMap   `gorm:"type:jsonb"`
	CreatedAt time.Time           `gorm:"not null"`
}

func (OrderStatusAuditDTO) TableName() string {
	return "order_status_audit"
}

// LineItemStatusAuditDTO is one row of line_item_status_audit.
type LineItemStatusAuditDTO struct {
	ID         int64                  `gorm:"primaryKey;autoIncrement"`
	LineItemID int64                  `gorm:"not null;index"`
	LineItem   *orderrepo.LineItemDTO `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
	OrderID    int64                  `gorm:"not null;index"`
	Order      *orderrepo.OrderDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Status     string                 `gorm:"type:text;not null"`
	Actor      string                 `gorm:"type:text;not null"`
	Notes      string                 `gorm:"type:text"`
	Metadata   datatypes.JSONMap      `gorm:"type:jsonb"`
	CreatedAt  time.Time              `gorm:"not null"`
}

func (LineItemStatusAuditDTO) TableName() string {
	return "line_item_status_audit"
}

func metadataColumn(m map[string]any) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	return datatypes.JSONMap(m)
}

func orderAuditFromDomain(a *order.OrderStatusAudit) OrderStatusAuditDTO {
	return OrderStatusAuditDTO{
		OrderID:   a.OrderID(),
		Status:    a.Status().String(),
		Actor:     a.Actor(),
		Notes:     a.Notes(),
		Metadata:  metadataColumn(a.Metadata()),
		CreatedAt: a.CreatedAt(),
	}
}

func lineItemAuditFromDomain(a *order.LineItemStatusAudit) LineItemStatusAuditDTO {
	return LineItemStatusAuditDTO{
		LineItemID: a.LineItemID(),
		OrderID:    a.OrderID(),
		Status:     a.Status().String(),
		Actor:      a.Actor(),
		Notes:      a.Notes(),
		Metadata:   metadataColumn(a.Metadata()),
		CreatedAt:  a.CreatedAt(),
	}
}
