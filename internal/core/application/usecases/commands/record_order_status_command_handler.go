package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// RecordOrderStatusCommandHandler applies a status change under a row lock. The audit
// row and the order's status columns get the same timestamp and actor.
type RecordOrderStatusCommandHandler struct {
	uowFactory StatusUoWFactory
	policy     order.TransitionPolicy
}

func NewRecordOrderStatusCommandHandler(uowFactory StatusUoWFactory, policy order.TransitionPolicy) *RecordOrderStatusCommandHandler {
	if policy == nil {
		policy = order.PermissivePolicy{}
	}
	return &RecordOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle returns errs.ObjectNotFoundError for an unknown order and errs.ValueIsInvalidError
// when the policy denies the move.
func (h *RecordOrderStatusCommandHandler) Handle(ctx context.Context, cmd RecordOrderStatusCommand) (*order.OrderStatusAudit, error) {
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
	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if err = o.ChangeStatus(h.policy, cmd.Status(), now, cmd.Actor()); err != nil {
		return nil, err
	}

	audit, err := order.NewOrderStatusAudit(o.ID(), cmd.Status(), cmd.Actor(), cmd.Notes(), cmd.Metadata(), now)
	if err != nil {
		return nil, err
	}
	if err = uow.StatusAuditRepository().AddOrderAudit(ctx, audit); err != nil {
		return nil, err
	}
	if err = orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return audit, nil
}
