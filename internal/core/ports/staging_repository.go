package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StagedState is the processing state of a staged payload.
type StagedState string

const (
	// StagedReceived means the payload is stored and not processed yet.
	StagedReceived StagedState = "RECEIVED"
	// StagedIngested means the order graph was committed.
	StagedIngested StagedState = "INGESTED"
	// StagedDuplicate means the order number had already been ingested.
	StagedDuplicate StagedState = "DUPLICATE"
	// StagedRejected means the payload failed validation and is never retried.
	StagedRejected StagedState = "REJECTED"
	// StagedFailed means ingestion failed transiently and may be replayed.
	StagedFailed StagedState = "FAILED"
)

// StagedOrder is a raw payload kept outside of the ingestion transaction so that a
// rolled back ingestion can be replayed.
type StagedOrder struct {
	ID          uuid.UUID
	ReceivedAt  time.Time
	ExternalID  *int64
	OrderNumber *string
	Payload     []byte
	State       StagedState
	Attempts    int
	LastError   *string
	OrderID     *int64
	UpdatedAt   time.Time
}

// StagedOutcome is the result of one processing attempt of a staged payload.
type StagedOutcome struct {
	State   StagedState
	OrderID *int64
	Error   error
}

// StagingRepository stores raw order payloads and their processing outcome.
type StagingRepository interface {
	// Add stores a new entry in StagedReceived.
	Add(ctx context.Context, staged *StagedOrder) error

	// Record stores the outcome of one attempt and increments the attempt counter.
	Record(ctx context.Context, id uuid.UUID, outcome StagedOutcome, at time.Time) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id uuid.UUID) (*StagedOrder, error)

	// ListReplayable returns up to limit StagedFailed entries with fewer than maxAttempts
	// attempts, oldest first.
	ListReplayable(ctx context.Context, limit, maxAttempts int) ([]*StagedOrder, error)
}
