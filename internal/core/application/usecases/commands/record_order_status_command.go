package commands

import (
	"errors"
	"maps"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordOrderStatusCommandIsNotConstructed = errors.New(
	"RecordOrderStatusCommand must be created via NewRecordOrderStatusCommand constructor",
)

// RecordOrderStatusCommand moves an order to a new status and appends the change to
// its history.
type RecordOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  int64
	status   order.Status
	actor    string
	notes    string
	metadata map[string]any

	guard guard.ConstructorGuard
}

func NewRecordOrderStatusCommand(
	orderID int64, status order.Status, actor, notes string, metadata map[string]any,
) (RecordOrderStatusCommand, error) {
	cmd := RecordOrderStatusCommand{
		notes:    notes,
		metadata: maps.Clone(metadata),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
		setStatusActor(&cmd.actor, actor),
	); err != nil {
		return RecordOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c RecordOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordOrderStatusCommandIsNotConstructed)
}

func (c RecordOrderStatusCommand) OrderID() int64 { return c.orderID }
func (c RecordOrderStatusCommand) Status() order.Status { return c.status }
func (c RecordOrderStatusCommand) Actor() string { return c.actor }
func (c RecordOrderStatusCommand) Notes() string { return c.notes }
func (c RecordOrderStatusCommand) Metadata() map[string]any { return maps.Clone(c.metadata) }

func (c *RecordOrderStatusCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsRequiredError("order id")
	}

	c.orderID = orderID
	return nil
}

func (c *RecordOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func setStatusActor(dst *string, actor string) error {
	if strings.TrimSpace(actor) == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	*dst = actor
	return nil
}
