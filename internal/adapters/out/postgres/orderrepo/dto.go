// Package orderrepo persists the order graph: orders, line items, line item
// properties and shipping lines.
package orderrepo

import (
	"time"

	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is one row of orders.
type OrderDTO struct {
	ID                      int64                    `gorm:"primaryKey;autoIncrement"`
	ExternalID              int64                    `gorm:"not null"`
	OrderNumber             string                   `gorm:"type:text;not null;uniqueIndex:idx_orders_order_number"`
	CustomerID              int64                    `gorm:"not null;index"`
	Customer                *customerrepo.CustomerDTO `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	ShippingAddressID       *int64
	ShippingAddress         *customerrepo.AddressDTO `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT"`
	BillingAddressID        *int64
	BillingAddress          *customerrepo.AddressDTO `gorm:"foreignKey:BillingAddressID;constraint:OnDelete:RESTRICT"`
	FulfillmentStatus       *string
	CancelReason            *string
	CurrentTotalPrice       decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	CurrentSubtotalPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	CurrentTotalDiscounts   decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	CurrentTotalTax         decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Note                    *string
	Tags                    *string
	Confirmed               *bool
	ContactEmail            *string
	ProcessedAt             *time.Time
	DeliveryDate            *string
	DeliverySession         *string
	TransformedDeliveryDate *time.Time
	RawBody                 datatypes.JSON `gorm:"type:jsonb"`
	Status                  string         `gorm:"type:text;not null;index"`
	StatusUpdatedAt         time.Time      `gorm:"not null"`
	StatusUpdatedBy         string         `gorm:"type:text;not null"`

	LineItems     []LineItemDTO     `gorm:"foreignKey:OrderID"`
	ShippingLines []ShippingLineDTO `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one row of line_items.
type LineItemDTO struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement"`
	OrderID             int64     `gorm:"not null;index"`
	Order               *OrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ExternalID          *int64
	ProductID           *string
	VariantID           *string
	Title               *string
	VariantTitle        *string
	SKU                 *string `gorm:"column:sku"`
	Quantity            *int
	Price               decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	TotalDiscount       decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	FulfillableQuantity *int
	FulfillmentStatus   *string
	Vendor              *string
	RequiresShipping    *bool
	Taxable             *bool
	Status              string    `gorm:"type:text;not null;index"`
	StatusUpdatedAt     time.Time `gorm:"not null"`
	StatusUpdatedBy     string    `gorm:"type:text;not null"`
	AssignedAt          *time.Time
	StartedAt           *time.Time
	CancelledAt         *time.Time
	CompletedAt         *time.Time

	Properties []LineItemPropertyDTO `gorm:"foreignKey:LineItemID"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

// LineItemPropertyDTO is one row of line_item_properties.
type LineItemPropertyDTO struct {
	ID         int64        `gorm:"primaryKey;autoIncrement"`
	LineItemID int64        `gorm:"not null;index"`
	LineItem   *LineItemDTO `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
	Name       string       `gorm:"type:text;not null"`
	Value      string       `gorm:"type:text;not null"`
}

func (LineItemPropertyDTO) TableName() string {
	return "line_item_properties"
}

// ShippingLineDTO is one row of shipping_lines.
type ShippingLineDTO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	OrderID           int64     `gorm:"not null;index"`
	Order             *OrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ExternalID        *string
	Code              *string
	Title             *string
	Price             decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	DiscountedPrice   decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Source            *string
	CarrierIdentifier *string
}

func (ShippingLineDTO) TableName() string {
	return "shipping_lines"
}

func moneyToColumn(m *kernel.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(m.Decimal())
}

func moneyFromColumn(d decimal.NullDecimal) *kernel.Money {
	if !d.Valid {
		return nil
	}
	m := kernel.MoneyFromDecimal(d.Decimal)
	return &m
}

func orderFromDomain(o *order.Order) OrderDTO {
	d := o.Details()
	var raw datatypes.JSON
	if len(d.RawBody) > 0 {
		raw = datatypes.JSON(d.RawBody)
	}

	return OrderDTO{
		ID:                      o.ID(),
		ExternalID:              d.ExternalID,
		OrderNumber:             d.OrderNumber,
		CustomerID:              o.CustomerID(),
		ShippingAddressID:       o.ShippingAddressID(),
		BillingAddressID:        o.BillingAddressID(),
		FulfillmentStatus:       d.FulfillmentStatus,
		CancelReason:            d.CancelReason,
		CurrentTotalPrice:       moneyToColumn(d.CurrentTotalPrice),
		CurrentSubtotalPrice:    moneyToColumn(d.CurrentSubtotalPrice),
		CurrentTotalDiscounts:   moneyToColumn(d.CurrentTotalDiscounts),
		CurrentTotalTax:         moneyToColumn(d.CurrentTotalTax),
		Note:                    d.Note,
		Tags:                    d.Tags,
		Confirmed:               d.Confirmed,
		ContactEmail:            d.ContactEmail,
		ProcessedAt:             d.ProcessedAt,
		DeliveryDate:            d.DeliveryDate,
		DeliverySession:         d.DeliverySession,
		TransformedDeliveryDate: o.TransformedDeliveryDate(),
		RawBody:                 raw,
		Status:                  o.Status().String(),
		StatusUpdatedAt:         o.StatusUpdatedAt(),
		StatusUpdatedBy:         o.StatusUpdatedBy(),
	}
}

func orderToDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lineItems := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, err := lineItemToDomain(itemDTO)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, item)
	}

	shippingLines := make([]*order.ShippingLine, 0, len(dto.ShippingLines))
	for _, lineDTO := range dto.ShippingLines {
		shippingLines = append(shippingLines, shippingLineToDomain(lineDTO))
	}

	details := order.Details{
		ExternalID:            dto.ExternalID,
		OrderNumber:           dto.OrderNumber,
		FulfillmentStatus:     dto.FulfillmentStatus,
		CancelReason:          dto.CancelReason,
		CurrentTotalPrice:     moneyFromColumn(dto.CurrentTotalPrice),
		CurrentSubtotalPrice:  moneyFromColumn(dto.CurrentSubtotalPrice),
		CurrentTotalDiscounts: moneyFromColumn(dto.CurrentTotalDiscounts),
		CurrentTotalTax:       moneyFromColumn(dto.CurrentTotalTax),
		Note:                  dto.Note,
		Tags:                  dto.Tags,
		Confirmed:             dto.Confirmed,
		ContactEmail:          dto.ContactEmail,
		ProcessedAt:           dto.ProcessedAt,
		DeliveryDate:          dto.DeliveryDate,
		DeliverySession:       dto.DeliverySession,
		RawBody:               []byte(dto.RawBody),
	}

	return order.RestoreOrder(
		dto.ID,
		dto.CustomerID,
		dto.ShippingAddressID,
		dto.BillingAddressID,
		details,
		dto.TransformedDeliveryDate,
		status,
		dto.StatusUpdatedAt,
		dto.StatusUpdatedBy,
		lineItems,
		shippingLines,
	)
}

func lineItemFromDomain(orderID int64, item *order.LineItem) LineItemDTO {
	d := item.Details()
	m := item.Milestones()
	return LineItemDTO{
		ID:                  item.ID(),
		OrderID:             orderID,
		ExternalID:          d.ExternalID,
		ProductID:           d.ProductID,
		VariantID:           d.VariantID,
		Title:               d.Title,
		VariantTitle:        d.VariantTitle,
		SKU:                 d.SKU,
		Quantity:            d.Quantity,
		Price:               moneyToColumn(d.Price),
		TotalDiscount:       moneyToColumn(d.TotalDiscount),
		FulfillableQuantity: d.FulfillableQuantity,
		FulfillmentStatus:   d.FulfillmentStatus,
		Vendor:              d.Vendor,
		RequiresShipping:    d.RequiresShipping,
		Taxable:             d.Taxable,
		Status:              item.Status().String(),
		StatusUpdatedAt:     item.StatusUpdatedAt(),
		StatusUpdatedBy:     item.StatusUpdatedBy(),
		AssignedAt:          m.AssignedAt,
		StartedAt:           m.StartedAt,
		CancelledAt:         m.CancelledAt,
		CompletedAt:         m.CompletedAt,
	}
}

func lineItemToDomain(dto LineItemDTO) (*order.LineItem, error) {
	status, err := order.ParseLineItemStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	properties := make([]*order.Property, 0, len(dto.Properties))
	for _, p := range dto.Properties {
		properties = append(properties, order.RestoreProperty(p.ID, p.Name, p.Value))
	}

	return order.RestoreLineItem(
		dto.ID,
		dto.OrderID,
		order.LineItemDetails{
			ExternalID:          dto.ExternalID,
			ProductID:           dto.ProductID,
			VariantID:           dto.VariantID,
			Title:               dto.Title,
			VariantTitle:        dto.VariantTitle,
			SKU:                 dto.SKU,
			Quantity:            dto.Quantity,
			Price:               moneyFromColumn(dto.Price),
			TotalDiscount:       moneyFromColumn(dto.TotalDiscount),
			FulfillableQuantity: dto.FulfillableQuantity,
			FulfillmentStatus:   dto.FulfillmentStatus,
			Vendor:              dto.Vendor,
			RequiresShipping:    dto.RequiresShipping,
			Taxable:             dto.Taxable,
		},
		properties,
		status,
		dto.StatusUpdatedAt,
		dto.StatusUpdatedBy,
		order.Milestones{
			AssignedAt:  dto.AssignedAt,
			StartedAt:   dto.StartedAt,
			CancelledAt: dto.CancelledAt,
			CompletedAt: dto.CompletedAt,
		},
	)
}

func shippingLineFromDomain(orderID int64, line *order.ShippingLine) ShippingLineDTO {
	d := line.Details()
	return ShippingLineDTO{
		ID:                line.ID(),
		OrderID:           orderID,
		ExternalID:        d.ExternalID,
		Code:              d.Code,
		Title:             d.Title,
		Price:             moneyToColumn(d.Price),
		DiscountedPrice:   moneyToColumn(d.DiscountedPrice),
		Source:            d.Source,
		CarrierIdentifier: d.CarrierIdentifier,
	}
}

func shippingLineToDomain(dto ShippingLineDTO) *order.ShippingLine {
	return order.RestoreShippingLine(dto.ID, order.ShippingLineDetails{
		ExternalID:        dto.ExternalID,
		Code:              dto.Code,
		Title:             dto.Title,
		Price:             moneyFromColumn(dto.Price),
		DiscountedPrice:   moneyFromColumn(dto.DiscountedPrice),
		Source:            dto.Source,
		CarrierIdentifier: dto.CarrierIdentifier,
	})
}
