// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the service's periodic maintenance jobs: event log
// retention, the daily submission summary and GeoIP database reloads.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// Job is a named periodic task.
type Job struct {
	Name            string
	Description     string
	DefaultSchedule string
	Run             func(ctx context.Context) error
}

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New()
	return &Scheduler{
		cron:     c,
		registry: NewRegistry(c, logger),
		logger:   logger,
	}
}

// Registry returns the registry of added jobs.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Add schedules job. An empty schedule selects the job's default.
func (s *Scheduler) Add(job Job, schedule string) error {
	if schedule == "" {
		schedule = job.DefaultSchedule
	}

	run := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", job.Name, "error", err)
			return err
		}
		s.logger.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start))
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, func() { _ = run() })
	if err != nil {
		return fmt.Errorf("scheduling %s with %q: %w", job.Name, schedule, err)
	}

	s.registry.Register(job.Name, job.Description, job.DefaultSchedule, schedule, entryID, run)
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
