package app

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler runs the daily almanac job
type Scheduler struct {
	scheduler *gocron.Scheduler
	app       *App
}

// NewScheduler schedules processing of yesterday at schedule.at, in the
// almanac timezone
func (a *App) NewScheduler() (*Scheduler, error) {
	s := gocron.NewScheduler(a.updater.Location())
	s.SingletonModeAll()

	sched := &Scheduler{scheduler: s, app: a}
	if _, err := s.Every(1).Day().At(a.cfg.Schedule.At).Do(sched.runDaily); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	day := s.app.Yesterday()
	s.app.logger.Infow("scheduler: running daily almanac job", "day", day)
	report, err := s.app.ProcessDays(ctx, []string{day}, ProcessOptions{SaveResponses: s.app.cfg.Archive.SaveResponses})
	if err != nil {
		s.app.logger.Errorw("scheduler: daily job failed", "day", day, "error", err)
		return
	}
	s.app.logger.Infow("scheduler: completed daily almanac job", "day", day, "missed", len(report.Missed))
}

// NextRun reports when the daily job runs next
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// Start starts the underlying scheduler
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler and cancels future jobs
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
