package jobs

import (
	"context"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/access"
	"laundry/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultOverdueSweepSchedule runs the sweep at 00:05 every day.
const DefaultOverdueSweepSchedule = "0 5 0 * * *"

const sweepTimeout = time.Minute

// OverdueMarker is satisfied by commands.MarkOverdueCommandHandler.
type OverdueMarker interface {
	Handle(ctx context.Context, cmd commands.MarkOverdueCommand) (int64, error)
}

// OverdueSweepJob flips pending invoices past their due date to overdue.
type OverdueSweepJob struct {
	handler  OverdueMarker
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger
}

// NewOverdueSweepJob creates the sweep. schedule is a six field cron expression
// with seconds; an empty schedule falls back to DefaultOverdueSweepSchedule.
func NewOverdueSweepJob(handler OverdueMarker, schedule string, log zerolog.Logger) *OverdueSweepJob {
	if schedule == "" {
		schedule = DefaultOverdueSweepSchedule
	}
	return &OverdueSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.WithComponent(log, "overdue_sweep_job"),
	}
}

// Start registers the sweep on its schedule and starts the scheduler.
func (j *OverdueSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("Overdue sweep job started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *OverdueSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("Overdue sweep job stopped")
}

func (j *OverdueSweepJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := j.Sweep(ctx); err != nil {
		j.logger.Error().Err(err).Msg("Overdue sweep failed")
	}
}

// Sweep runs one pass as the system actor and returns how many invoices changed.
func (j *OverdueSweepJob) Sweep(ctx context.Context) (int64, error) {
	cmd, err := commands.NewMarkOverdueCommand(access.SystemActor())
	if err != nil {
		return 0, err
	}

	modified, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return 0, err
	}

	j.logger.Info().Int64("modified", modified).Msg("Overdue sweep finished")
	return modified, nil
}
