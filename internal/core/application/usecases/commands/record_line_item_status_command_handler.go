package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// RecordLineItemStatusCommandHandler is the line item twin of
// RecordOrderStatusCommandHandler. It also stamps the milestone of the new status.
type RecordLineItemStatusCommandHandler struct {
	uowFactory StatusUoWFactory
	policy     order.TransitionPolicy
}

func NewRecordLineItemStatusCommandHandler(uowFactory StatusUoWFactory, policy order.TransitionPolicy) *RecordLineItemStatusCommandHandler {
	if policy == nil {
		policy = order.PermissivePolicy{}
	}
	return &RecordLineItemStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h *RecordLineItemStatusCommandHandler) Handle(
	ctx context.Context, cmd RecordLineItemStatusCommand,
) (*order.LineItemStatusAudit, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	item, err := orders.GetLineItemForUpdate(ctx, cmd.LineItemID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if err = item.ChangeStatus(h.policy, cmd.Status(), now, cmd.Actor()); err != nil {
		return nil, err
	}

	audit, err := order.NewLineItemStatusAudit(
		item.ID(), item.OrderID(), cmd.Status(), cmd.Actor(), cmd.Notes(), cmd.Metadata(), now,
	)
	if err != nil {
		return nil, err
	}
	if err = uow.StatusAuditRepository().AddLineItemAudit(ctx, audit); err != nil {
		return nil, err
	}
	if err = orders.UpdateLineItemStatus(ctx, item); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return audit, nil
}
