// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based and use github.com/robfig/cron/v3.
//
// # Available Jobs
//
// StagedOrderReplayJob replays FAILED entries of the order ingestion log. It runs the
// ReplayStagedOrdersCommandHandler on REPLAY_SCHEDULE (default "@every 1m"); overlapping
// runs are skipped.
//
// # Usage
//
//	replay := jobs.NewStagedOrderReplayJob(handler, cmd, "@every 1m", logger)
//	jobManager := jobs.NewJobManager(replay)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed batch is logged and retried on the next tick. Failures of individual
// entries are counted by the handler and never stop the job.
package jobs
