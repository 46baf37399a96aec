package commands

import (
	"errors"
	"maps"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordLineItemStatusCommandIsNotConstructed = errors.New(
	"RecordLineItemStatusCommand must be created via NewRecordLineItemStatusCommand constructor",
)

// RecordLineItemStatusCommand moves a line item to a new status and appends the
// change to its history.
type RecordLineItemStatusCommand struct { //nolint:recvcheck //using for validation
	lineItemID int64
	status     order.LineItemStatus
	actor      string
	notes      string
	metadata   map[string]any

	guard guard.ConstructorGuard
}

func NewRecordLineItemStatusCommand(
	lineItemID int64, status order.LineItemStatus, actor, notes string, metadata map[string]any,
) (RecordLineItemStatusCommand, error) {
	cmd := RecordLineItemStatusCommand{
		notes:    notes,
		metadata: maps.Clone(metadata),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLineItemID(lineItemID),
		cmd.setStatus(status),
		setStatusActor(&cmd.actor, actor),
	); err != nil {
		return RecordLineItemStatusCommand{}, err
	}

	return cmd, nil
}

func (c RecordLineItemStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordLineItemStatusCommandIsNotConstructed)
}

func (c RecordLineItemStatusCommand) LineItemID() int64 { return c.lineItemID }
func (c RecordLineItemStatusCommand) Status() order.LineItemStatus { return c.status }
func (c RecordLineItemStatusCommand) Actor() string { return c.actor }
func (c RecordLineItemStatusCommand) Notes() string { return c.notes }
func (c RecordLineItemStatusCommand) Metadata() map[string]any { return maps.Clone(c.metadata) }

func (c *RecordLineItemStatusCommand) setLineItemID(lineItemID int64) error {
	if lineItemID <= 0 {
		return errs.NewValueIsRequiredError("line item id")
	}

	c.lineItemID = lineItemID
	return nil
}

func (c *RecordLineItemStatusCommand) setStatus(status order.LineItemStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
