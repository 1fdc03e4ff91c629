// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with the Event Log system.
// It forwards logs at WARN level and above to the database-backed Event Log for auditing.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/opinion-survey/internal/middleware"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
)

// Attribute keys lifted out of the metadata into their own columns.
const (
	attrCategory = "category"
	attrIP       = "ip"
	attrUserID   = "user_id"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the Event Log database.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to Event Log (default: WARN)
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the Event Log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeToEventLog writes a log record to the Event Log database.
// A user_id that no longer matches an account is kept in the metadata
// instead of the user column.
func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	var (
		ip     string
		userID sql.NullInt64
	)
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case attrIP:
			ip = a.Value.String()
		case attrUserID:
			if a.Value.Kind() == slog.KindInt64 {
				userID = sql.NullInt64{Int64: a.Value.Int64(), Valid: true}
			}
		}
		return true
	})

	meta := extractMetadata(r)
	params := store.CreateEventParams{
		Level:      slogLevelToEventLevel(r.Level),
		Category:   extractCategory(r),
		Message:    r.Message,
		UserID:     userID,
		Metadata:   encodeMetadata(meta),
		IpAddress:  ip,
		RequestUrl: middleware.GetRequestPath(ctx),
		CreatedAt:  r.Time.UTC(),
	}

	// The request context may already be cancelled; the event is still written.
	writeCtx := context.WithoutCancel(ctx)
	_, err := h.queries.CreateEvent(writeCtx, params)
	if err != nil && userID.Valid {
		meta[attrUserID] = strconv.FormatInt(userID.Int64, 10)
		params.UserID = sql.NullInt64{}
		params.Metadata = encodeMetadata(meta)
		_, err = h.queries.CreateEvent(writeCtx, params)
	}
	if err != nil {
		h.reportWriteFailure(writeCtx, r, err)
	}
}

// reportWriteFailure logs a failed event insert through the wrapped handler
// only, so the failure cannot recurse into the Event Log.
func (h *EventLogHandler) reportWriteFailure(ctx context.Context, r slog.Record, err error) {
	if !h.inner.Enabled(ctx, slog.LevelError) {
		return
	}
	rec := slog.NewRecord(time.Now(), slog.LevelError, "event log write failed", 0)
	rec.AddAttrs(
		slog.String("event_message", r.Message),
		slog.String("error", err.Error()),
	)
	_ = h.inner.Handle(ctx, rec)
}

// slogLevelToEventLevel converts a slog.Level to an Event Log level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory uses the "category" attribute or infers one from the message.
func extractCategory(r slog.Record) string {
	var category string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == attrCategory {
			category = a.Value.String()
			return false
		}
		return true
	})

	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case containsAny(msg, "auth", "login", "logout", "session", "csrf", "password"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "export"):
		return model.EventCategoryExport
	case containsAny(msg, "survey", "submission", "response", "wizard"):
		return model.EventCategorySurvey
	case containsAny(msg, "cache", "redis", "revocation"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractMetadata collects the remaining log attributes.
func extractMetadata(r slog.Record) map[string]string {
	meta := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case attrCategory, attrIP, attrUserID:
		default:
			meta[a.Key] = a.Value.String()
		}
		return true
	})
	return meta
}

// encodeMetadata renders metadata as a JSON object.
func encodeMetadata(meta map[string]string) string {
	if len(meta) == 0 {
		return "{}"
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(data)
}
