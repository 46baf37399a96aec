package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []Job
}

// NewJobManager creates a manager for jobs, started in the given order.
func NewJobManager(jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			// Stop already started jobs if this one fails
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully, in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
