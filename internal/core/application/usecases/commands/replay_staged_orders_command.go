package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReplayStagedOrdersCommandIsNotConstructed = errors.New(
	"ReplayStagedOrdersCommand must be created via NewReplayStagedOrdersCommand constructor",
)

// ReplayStagedOrdersCommand selects up to batchSize FAILED log entries that were tried
// fewer than maxAttempts times.
type ReplayStagedOrdersCommand struct { //nolint:recvcheck //using for validation
	batchSize   int
	maxAttempts int

	guard guard.ConstructorGuard
}

func NewReplayStagedOrdersCommand(batchSize, maxAttempts int) (ReplayStagedOrdersCommand, error) {
	var batchErr, attemptsErr error
	if batchSize <= 0 {
		batchErr = errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	if maxAttempts <= 0 {
		attemptsErr = errs.NewValueIsOutOfRangeError("max attempts", maxAttempts, 1, "unbounded")
	}
	if err := errors.Join(batchErr, attemptsErr); err != nil {
		return ReplayStagedOrdersCommand{}, err
	}

	return ReplayStagedOrdersCommand{
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReplayStagedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrReplayStagedOrdersCommandIsNotConstructed)
}

func (c ReplayStagedOrdersCommand) BatchSize() int { return c.batchSize }
func (c ReplayStagedOrdersCommand) MaxAttempts() int { return c.maxAttempts }
