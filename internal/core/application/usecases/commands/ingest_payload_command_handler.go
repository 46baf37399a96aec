package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/intake"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

type (
	// PayloadNormalizer turns a raw body into an order aggregate.
	PayloadNormalizer interface {
		Normalize(raw []byte) (intake.OrderAggregate, error)
	}

	// OrderIngester persists a normalized order.
	OrderIngester interface {
		Handle(ctx context.Context, cmd IngestOrderCommand) (IngestOrderResult, error)
	}
)

// IngestPayloadResult is the outcome of one attempt on a raw body. StagedID is nil
// when staging is disabled.
type IngestPayloadResult struct {
	StagedID *uuid.UUID
	State    ports.StagedState
	Ingested IngestOrderResult
}

// IsValidationError reports whether err rejects the payload itself, so that retrying
// the same body can never succeed.
func IsValidationError(err error) bool {
	return errors.Is(err, intake.ErrPayloadIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}

// IngestPayloadCommandHandler stages a raw body, normalizes it, ingests it and
// records the outcome in the ingestion log.
//
// The staging writes use their own short transactions: the payload is kept even when
// the ingestion transaction rolls back, and FAILED entries are picked up by
// ReplayStagedOrdersCommandHandler.
type IngestPayloadCommandHandler struct {
	staging    StagingUoWFactory
	normalizer PayloadNormalizer
	ingester   OrderIngester
	actor      string
	logger     *slog.Logger
}

// NewIngestPayloadCommandHandler builds the handler. A nil staging factory disables the
// ingestion log.
func NewIngestPayloadCommandHandler(
	staging StagingUoWFactory,
	normalizer PayloadNormalizer,
	ingester OrderIngester,
	actor string,
	logger *slog.Logger,
) *IngestPayloadCommandHandler {
	return &IngestPayloadCommandHandler{
		staging:    staging,
		normalizer: normalizer,
		ingester:   ingester,
		actor:      actor,
		logger:     logger.With("component", "IngestPayloadCommandHandler"),
	}
}

// Handle returns the error of the failed step: an intake.PayloadError or another
// validation error, ErrOrderAlreadyIngested for a duplicate, or the storage error.
func (h *IngestPayloadCommandHandler) Handle(ctx context.Context, cmd IngestPayloadCommand) (IngestPayloadResult, error) {
	if err := cmd.Validate(); err != nil {
		return IngestPayloadResult{}, err
	}

	var stagedID *uuid.UUID
	if h.staging != nil {
		id, err := h.stage(ctx, cmd)
		if err != nil {
			return IngestPayloadResult{}, err
		}
		stagedID = &id
	}

	return h.process(ctx, stagedID, cmd.Payload())
}

// Replay runs one more attempt on an already staged body.
func (h *IngestPayloadCommandHandler) Replay(ctx context.Context, staged *ports.StagedOrder) (IngestPayloadResult, error) {
	if staged == nil {
		return IngestPayloadResult{}, errs.NewValueIsRequiredError("staged order")
	}
	return h.process(ctx, &staged.ID, staged.Payload)
}

func (h *IngestPayloadCommandHandler) process(ctx context.Context, stagedID *uuid.UUID, payload []byte) (IngestPayloadResult, error) {
	result := IngestPayloadResult{StagedID: stagedID}

	ingested, err := h.ingest(ctx, payload)
	outcome := ports.StagedOutcome{Error: err}
	switch {
	case err == nil:
		outcome.State = ports.StagedIngested
		id := ingested.Order.ID()
		outcome.OrderID = &id
		result.Ingested = ingested
	case errors.Is(err, ErrOrderAlreadyIngested):
		outcome.State = ports.StagedDuplicate
		outcome.Error = nil
	case IsValidationError(err):
		outcome.State = ports.StagedRejected
	default:
		outcome.State = ports.StagedFailed
	}
	result.State = outcome.State

	if stagedID != nil {
		h.record(ctx, *stagedID, outcome)
	}
	return result, err
}

func (h *IngestPayloadCommandHandler) ingest(ctx context.Context, payload []byte) (IngestOrderResult, error) {
	aggregate, err := h.normalizer.Normalize(payload)
	if err != nil {
		return IngestOrderResult{}, err
	}

	cmd, err := NewIngestOrderCommand(aggregate, h.actor)
	if err != nil {
		return IngestOrderResult{}, err
	}

	return h.ingester.Handle(ctx, cmd)
}

func (h *IngestPayloadCommandHandler) stage(ctx context.Context, cmd IngestPayloadCommand) (uuid.UUID, error) {
	staged := &ports.StagedOrder{
		ID:         uuid.New(),
		ReceivedAt: cmd.ReceivedAt().UTC().Truncate(time.Microsecond),
		Payload:    cmd.Payload(),
		State:      ports.StagedReceived,
	}
	staged.ExternalID, staged.OrderNumber = peekIdentity(cmd.Payload())

	uow := h.staging.Create()
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.StagingRepository().Add(ctx, staged); err != nil {
		return uuid.Nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return staged.ID, nil
}

// record stores the outcome even when ctx is already cancelled. A failure is logged
// and does not change the result of the attempt.
func (h *IngestPayloadCommandHandler) record(ctx context.Context, id uuid.UUID, outcome ports.StagedOutcome) {
	ctx = context.WithoutCancel(ctx)

	err := func() error {
		uow := h.staging.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := uow.StagingRepository().Record(ctx, id, outcome, time.Now().UTC()); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record ingestion outcome",
			"staged_id", id.String(),
			"state", string(outcome.State),
			"error", err.Error(),
		)
	}
}

// peekIdentity reads id and order_number when they have the expected types, so the
// log can be searched even for rejected payloads.
func peekIdentity(payload []byte) (*int64, *string) {
	var probe struct {
		ID          *int64       `json:"id"`
		OrderNumber *json.Number `json:"order_number"`
	}
	_ = json.Unmarshal(payload, &probe)

	var number *string
	if probe.OrderNumber != nil {
		s := probe.OrderNumber.String()
		number = &s
	}
	return probe.ID, number
}
