package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderNumberIndex is the unique index on orders.order_number.
const OrderNumberIndex = "idx_orders_order_number"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row only. Children are written by AddLineItem,
// AddProperties and AddShippingLines.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := orderFromDomain(aggregate)
	dto.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolationOf(err, OrderNumberIndex) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order number", aggregate.OrderNumber(), err)
		}
		return err
	}
	aggregate.AssignID(dto.ID)

	r.tracker.TrackAggregate(aggregate)
	return nil
}

func (r *GormOrderRepository) AddLineItem(ctx context.Context, orderID int64, item *order.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if orderID <= 0 {
		return errs.NewValueIsRequiredError("order id")
	}

	dto := lineItemFromDomain(orderID, item)
	dto.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	item.AssignIdentity(dto.ID, orderID)

	r.tracker.TrackAggregate(item)
	return nil
}

func (r *GormOrderRepository) AddProperties(ctx context.Context, item *order.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID() <= 0 {
		return errs.NewValueIsRequiredError("line item id")
	}

	properties := item.Properties()
	if len(properties) == 0 {
		return nil
	}

	dtos := make([]LineItemPropertyDTO, 0, len(properties))
	for _, p := range properties {
		dtos = append(dtos, LineItemPropertyDTO{LineItemID: item.ID(), Name: p.Name(), Value: p.Value()})
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dtos).Error; err != nil {
		return err
	}
	for i, p := range properties {
		p.AssignID(dtos[i].ID)
	}
	return nil
}

func (r *GormOrderRepository) AddShippingLines(ctx context.Context, orderID int64, lines []*order.ShippingLine) error {
	if len(lines) == 0 {
		return nil
	}
	if orderID <= 0 {
		return errs.NewValueIsRequiredError("order id")
	}

	dtos := make([]ShippingLineDTO, 0, len(lines))
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
		dto := shippingLineFromDomain(orderID, line)
		dto.ID = 0
		dtos = append(dtos, dto)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dtos).Error; err != nil {
		return err
	}
	for i, line := range lines {
		line.AssignID(dtos[i].ID)
	}
	return nil
}

func (r *GormOrderRepository) UpdateDeliverySchedule(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.updateOrder(ctx, aggregate, map[string]any{
		"transformed_delivery_date": aggregate.TransformedDeliveryDate(),
	})
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.updateOrder(ctx, aggregate, map[string]any{
		"status":            aggregate.Status().String(),
		"status_updated_at": aggregate.StatusUpdatedAt(),
		"status_updated_by": aggregate.StatusUpdatedBy(),
	})
}

func (r *GormOrderRepository) updateOrder(ctx context.Context, aggregate *order.Order, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", aggregate.ID()).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

func (r *GormOrderRepository) UpdateLineItemStatus(ctx context.Context, item *order.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	m := item.Milestones()
	result := r.db.WithContext(ctx).Model(&LineItemDTO{}).Where("id = ?", item.ID()).Updates(map[string]any{
		"status":            item.Status().String(),
		"status_updated_at": item.StatusUpdatedAt(),
		"status_updated_by": item.StatusUpdatedBy(),
		"assigned_at":       m.AssignedAt,
		"started_at":        m.StartedAt,
		"cancelled_at":      m.CancelledAt,
		"completed_at":      m.CompletedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("line item", item.ID())
	}

	r.tracker.TrackAggregate(item)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("LineItems.Properties", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("ShippingLines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return orderToDomain(dto)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return orderToDomain(dto)
}

func (r *GormOrderRepository) GetLineItemForUpdate(ctx context.Context, id int64) (*order.LineItem, error) {
	var dto LineItemDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("line item", id)
		}
		return nil, err
	}

	return lineItemToDomain(dto)
}
