package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/application/intake"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIngestOrderCommandIsNotConstructed = errors.New(
	"IngestOrderCommand must be created via NewIngestOrderCommand constructor",
)

// IngestOrderCommand asks to persist one normalized order payload on behalf of actor.
type IngestOrderCommand struct { //nolint:recvcheck //using for validation
	aggregate intake.OrderAggregate
	actor     string

	guard guard.ConstructorGuard
}

func NewIngestOrderCommand(aggregate intake.OrderAggregate, actor string) (IngestOrderCommand, error) {
	cmd := IngestOrderCommand{
		aggregate: aggregate,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		aggregate.CustomerEmail.Validate(),
	); err != nil {
		return IngestOrderCommand{}, err
	}

	return cmd, nil
}

func (c IngestOrderCommand) Validate() error {
	return c.guard.Validate(ErrIngestOrderCommandIsNotConstructed)
}

func (c IngestOrderCommand) Aggregate() intake.OrderAggregate {
	return c.aggregate
}

// Actor is recorded as status_updated_by and as the actor of the seeded audit rows.
func (c IngestOrderCommand) Actor() string {
	return c.actor
}

func (c *IngestOrderCommand) setActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
