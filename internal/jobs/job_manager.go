package jobs

import (
	"fmt"

	"github.com/rs/zerolog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overdueSweepJob *OverdueSweepJob
}

// NewJobManager creates a job manager with every scheduled job.
func NewJobManager(markOverdue OverdueMarker, overdueSchedule string, logger zerolog.Logger) *JobManager {
	return &JobManager{
		overdueSweepJob: NewOverdueSweepJob(markOverdue, overdueSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueSweepJob.Stop()
}
