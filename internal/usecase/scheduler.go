package usecase

import (
	"context"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// Scheduler wires the interval driver with the report workflow.
type Scheduler struct {
	driver ports.Scheduler
	report *Report
}

// NewScheduler returns a helper to start/stop recurring report runs.
func NewScheduler(driver ports.Scheduler, report *Report) *Scheduler {
	return &Scheduler{driver: driver, report: report}
}

// Start registers the report workflow with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.report == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_, _ = s.report.Generate(ctx, trigger)
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
