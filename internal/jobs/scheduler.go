package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/events"
)

type Scheduler struct {
	cron     *cron.Cron
	tasks    *events.Publisher
	schedule string
	log      zerolog.Logger
}

func NewScheduler(tasks *events.Publisher, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		tasks:    tasks,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the orphan sweep. Without a task stream or a schedule
// there is nothing to run and Start returns immediately.
func (s *Scheduler) Start() error {
	if !s.tasks.Enabled() || s.schedule == "" {
		s.log.Info().Msg("sweep scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueueSweep); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("sweep scheduler started")
	return nil
}

// Stop waits for a running enqueue to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("sweep scheduler stop timed out")
	}
}

func (s *Scheduler) enqueueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task, err := s.tasks.Publish(ctx, events.TypeSweep, "")
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue sweep failed")
		return
	}
	s.log.Debug().Str("task_id", task.ID).Msg("sweep enqueued")
}
