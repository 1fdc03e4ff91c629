// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	name            string
	description     string
	defaultSchedule string
	schedule        string // effective schedule (override or default)
	entryID         cron.EntryID
	triggerFunc     func() error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string
	Description     string
	DefaultSchedule string
	Schedule        string // effective schedule
	IsOverridden    bool
	LastRun         time.Time
	NextRun         time.Time
}

// Registry tracks the jobs added to one cron instance.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

// NewRegistry creates a registry for jobs of c.
func NewRegistry(c *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   c,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register records a job after it has been added to the cron instance.
func (r *Registry) Register(name, description, defaultSchedule, schedule string, entryID cron.EntryID, triggerFunc func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[name] = &registeredJob{
		name:            name,
		description:     description,
		defaultSchedule: defaultSchedule,
		schedule:        schedule,
		entryID:         entryID,
		triggerFunc:     triggerFunc,
	}

	r.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		entry := r.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:            job.name,
			Description:     job.description,
			DefaultSchedule: job.defaultSchedule,
			Schedule:        job.schedule,
			IsOverridden:    job.schedule != job.defaultSchedule,
			NextRun:         entry.Next,
			LastRun:         entry.Prev,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// TriggerNow runs a job immediately on the calling goroutine.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	job, ok := r.jobs[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	r.logger.Info("manually triggering job", "name", name)
	return job.triggerFunc()
}

// Unregister removes a job and its cron entry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[name]
	if !ok {
		return
	}

	r.cron.Remove(job.entryID)
	delete(r.jobs, name)

	r.logger.Debug("unregistered scheduled job", "name", name)
}
