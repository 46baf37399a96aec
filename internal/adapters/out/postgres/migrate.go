package postgres

import (
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/stagingrepo"

	"gorm.io/gorm"
)

// Models lists the persisted DTOs in foreign key order.
func Models() []any {
	return []any{
		&customerrepo.CustomerDTO{},
		&customerrepo.AddressDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.LineItemPropertyDTO{},
		&orderrepo.ShippingLineDTO{},
		&auditrepo.OrderStatusAuditDTO{},
		&auditrepo.LineItemStatusAuditDTO{},
		&stagingrepo.StagedOrderDTO{},
	}
}

// Migrate creates or extends every table with AutoMigrate.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// TableNames lists the tables created by Migrate, children first.
func TableNames() []string {
	return []string{
		"order_ingestion_log",
		"line_item_status_audit",
		"order_status_audit",
		"shipping_lines",
		"line_item_properties",
		"line_items",
		"orders",
		"addresses",
		"customers",
	}
}
