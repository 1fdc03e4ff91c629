// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

// Job names.
const (
	JobEventRetention = "event-retention"
	JobDailySummary   = "daily-summary"
	JobGeoIPReload    = "geoip-reload"
)

// EventPruner deletes old audit events.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) error
}

// EventRetentionJob deletes events older than retention every night.
func EventRetentionJob(events EventPruner, retention time.Duration) Job {
	return Job{
		Name:            JobEventRetention,
		Description:     fmt.Sprintf("Delete event log entries older than %s", retention),
		DefaultSchedule: "@daily",
		Run: func(ctx context.Context) error {
			if err := events.DeleteOldEvents(ctx, retention); err != nil {
				return fmt.Errorf("deleting old events: %w", err)
			}
			return nil
		},
	}
}

// StatsComputer produces response statistics.
type StatsComputer interface {
	Compute(ctx context.Context) (transfer.Stats, error)
}

// SystemLogger records system events in the audit log.
type SystemLogger interface {
	LogSystemEvent(ctx context.Context, level, message string, metadata map[string]any) error
}

// DailySummaryJob records the submission counts in the event log once a day,
// shortly before midnight UTC.
func DailySummaryJob(stats StatsComputer, events SystemLogger) Job {
	return Job{
		Name:            JobDailySummary,
		Description:     "Record daily submission totals in the event log",
		DefaultSchedule: "55 23 * * *",
		Run: func(ctx context.Context) error {
			st, err := stats.Compute(ctx)
			if err != nil {
				return fmt.Errorf("computing summary: %w", err)
			}
			return events.LogSystemEvent(ctx, model.EventLevelInfo, "Daily survey summary", map[string]any{
				"total":     st.Total,
				"today":     st.Today,
				"thisWeek":  st.ThisWeek,
				"thisMonth": st.ThisMonth,
			})
		},
	}
}

// Reloader reopens a database file that may have been replaced on disk.
type Reloader interface {
	Reload() error
}

// GeoIPReloadJob picks up refreshed GeoIP databases weekly.
func GeoIPReloadJob(r Reloader) Job {
	return Job{
		Name:            JobGeoIPReload,
		Description:     "Reload the GeoIP country database",
		DefaultSchedule: "@weekly",
		Run: func(context.Context) error {
			if err := r.Reload(); err != nil {
				return fmt.Errorf("reloading geoip database: %w", err)
			}
			return nil
		},
	}
}
