package jobs

import (
	"context"
	"log/slog"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReplaySchedule is used when no schedule is configured.
const DefaultReplaySchedule = "@every 1m"

// StagedOrderReplayer runs one replay batch.
type StagedOrderReplayer interface {
	Handle(ctx context.Context, cmd commands.ReplayStagedOrdersCommand) (commands.ReplayStagedOrdersResult, error)
}

// StagedOrderReplayJob retries FAILED ingestions from the ingestion log on a cron
// schedule. A run that is still going when the next one is due makes the next one skip.
type StagedOrderReplayJob struct {
	handler  StagedOrderReplayer
	cmd      commands.ReplayStagedOrdersCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// NewStagedOrderReplayJob creates the job. An empty schedule means DefaultReplaySchedule.
func NewStagedOrderReplayJob(
	handler StagedOrderReplayer,
	cmd commands.ReplayStagedOrdersCommand,
	schedule string,
	logger *slog.Logger,
) *StagedOrderReplayJob {
	if schedule == "" {
		schedule = DefaultReplaySchedule
	}
	logger = logger.With("component", "staged_order_replay_job")

	return &StagedOrderReplayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		)),
		logger: logger,
	}
}

// Start registers the schedule and starts the cron runner.
func (j *StagedOrderReplayJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return nil
	}

	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.ctx, j.cancel = context.WithCancel(context.Background())
	j.cron.Start()
	j.started = true
	j.logger.InfoContext(j.ctx, "Staged order replay job started", "schedule", j.schedule)
	return nil
}

// Run replays one batch now.
func (j *StagedOrderReplayJob) Run() {
	j.mu.Lock()
	ctx := j.ctx
	j.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Staged order replay job failed", "error", err)
		return
	}
	if result.Selected > 0 {
		j.logger.InfoContext(ctx, "Staged order replay job replayed a batch",
			"selected", result.Selected,
			"ingested", result.Ingested,
			"failed", result.Failed,
		)
	}
}

// Stop cancels a running batch and waits for it to return.
func (j *StagedOrderReplayJob) Stop() {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return
	}
	j.cancel()
	j.started = false
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Staged order replay job stopped")
}
