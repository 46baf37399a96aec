package commands

import (
	"context"
	"log/slog"
	"sync"

	"fulfillment/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// StagedOrderReplayer runs one more ingestion attempt on a staged payload.
type StagedOrderReplayer interface {
	Replay(ctx context.Context, staged *ports.StagedOrder) (IngestPayloadResult, error)
}

// ReplayStagedOrdersResult counts the outcomes of one replay batch.
type ReplayStagedOrdersResult struct {
	Selected   int
	Ingested   int
	Duplicates int
	Rejected   int
	Failed     int
}

// ReplayStagedOrdersCommandHandler retries FAILED ingestions. Each entry is replayed
// in its own transaction; at most concurrency entries run at a time.
type ReplayStagedOrdersCommandHandler struct {
	staging     StagingUoWFactory
	replayer    StagedOrderReplayer
	concurrency int
	logger      *slog.Logger
}

func NewReplayStagedOrdersCommandHandler(
	staging StagingUoWFactory,
	replayer StagedOrderReplayer,
	concurrency int,
	logger *slog.Logger,
) *ReplayStagedOrdersCommandHandler {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ReplayStagedOrdersCommandHandler{
		staging:     staging,
		replayer:    replayer,
		concurrency: concurrency,
		logger:      logger.With("component", "ReplayStagedOrdersCommandHandler"),
	}
}

// Handle replays one batch. Individual failures are counted and logged, only a failure
// to select the batch or a cancelled ctx is returned.
func (h *ReplayStagedOrdersCommandHandler) Handle(ctx context.Context, cmd ReplayStagedOrdersCommand) (ReplayStagedOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReplayStagedOrdersResult{}, err
	}

	staged, err := h.staging.Create().StagingRepository().ListReplayable(ctx, cmd.BatchSize(), cmd.MaxAttempts())
	if err != nil {
		return ReplayStagedOrdersResult{}, err
	}

	result := ReplayStagedOrdersResult{Selected: len(staged)}
	if len(staged) == 0 {
		return result, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(h.concurrency)

	for _, entry := range staged {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			attempt, err := h.replayer.Replay(ctx, entry)

			mu.Lock()
			defer mu.Unlock()
			switch attempt.State {
			case ports.StagedIngested:
				result.Ingested++
			case ports.StagedDuplicate:
				result.Duplicates++
			case ports.StagedRejected:
				result.Rejected++
			default:
				result.Failed++
			}

			if err != nil && attempt.State != ports.StagedDuplicate {
				h.logger.WarnContext(ctx, "staged order replay failed",
					"staged_id", entry.ID.String(),
					"state", string(attempt.State),
					"attempts", entry.Attempts+1,
					"error", err.Error(),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	h.logger.InfoContext(ctx, "staged order replay finished",
		"selected", result.Selected,
		"ingested", result.Ingested,
		"duplicates", result.Duplicates,
		"rejected", result.Rejected,
		"failed", result.Failed,
	)
	return result, ctx.Err()
}
