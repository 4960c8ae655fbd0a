// Package jobs provides scheduled background tasks for the laundry backend.
//
// Jobs are cron based, using github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// OverdueSweepJob marks pending invoices whose due date has passed as overdue.
// It runs as the system actor and is idempotent, so a missed or doubled run
// is harmless. The schedule comes from OVERDUE_SWEEP_SCHEDULE and defaults to
// DefaultOverdueSweepSchedule.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(markOverdueHandler, cfg.OverdueSweepSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
package jobs
