package usecase

import (
	"context"
	"log/slog"
	"time"

	"ReviewConsole/internal/ports"
)

// Scheduler wires the interval driver with the console refresh job.
type Scheduler struct {
	driver  ports.Scheduler
	console *Console
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, console *Console, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, console: console, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.console == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.console.RefreshAndNotify(ctx, trigger); err != nil {
			s.logger.Error("scheduled refresh failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
