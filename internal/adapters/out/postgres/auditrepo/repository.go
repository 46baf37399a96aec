package auditrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatusAuditRepository implements ports.StatusAuditRepository using GORM.
type GormStatusAuditRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate any)
}

func NewGormStatusAuditRepository(db *gorm.DB, tracker aggregateTracker) *GormStatusAuditRepository {
	return &GormStatusAuditRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormStatusAuditRepository) AddOrderAudit(ctx context.Context, audit *order.OrderStatusAudit) error {
	if err := audit.Validate(); err != nil {
		return err
	}

	dto := orderAuditFromDomain(audit)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	audit.AssignID(dto.ID)

	r.tracker.TrackAggregate(audit)
	return nil
}

func (r *GormStatusAuditRepository) AddLineItemAudit(ctx context.Context, audit *order.LineItemStatusAudit) error {
	if err := audit.Validate(); err != nil {
		return err
	}

	dto := lineItemAuditFromDomain(audit)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	audit.AssignID(dto.ID)

	r.tracker.TrackAggregate(audit)
	return nil
}
