package commands

import (
	"bytes"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIngestPayloadCommandIsNotConstructed = errors.New(
	"IngestPayloadCommand must be created via NewIngestPayloadCommand constructor",
)

// IngestPayloadCommand carries one raw webhook body as received.
type IngestPayloadCommand struct { //nolint:recvcheck //using for validation
	payload    []byte
	receivedAt time.Time

	guard guard.ConstructorGuard
}

func NewIngestPayloadCommand(payload []byte, receivedAt time.Time) (IngestPayloadCommand, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return IngestPayloadCommand{}, errs.NewValueIsRequiredError("payload")
	}
	if receivedAt.IsZero() {
		return IngestPayloadCommand{}, errs.NewValueIsRequiredError("received at")
	}

	return IngestPayloadCommand{
		payload:    bytes.Clone(payload),
		receivedAt: receivedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c IngestPayloadCommand) Validate() error {
	return c.guard.Validate(ErrIngestPayloadCommandIsNotConstructed)
}

func (c IngestPayloadCommand) Payload() []byte { return c.payload }
func (c IngestPayloadCommand) ReceivedAt() time.Time { return c.receivedAt }
