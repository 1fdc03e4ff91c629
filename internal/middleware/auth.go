// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin authentication,
// rate limiting and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/opinion-survey/internal/auth"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/util"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeySession     ContextKey = "admin_session"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionValidator decodes an admin session token.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (model.AdminSession, error)
}

// RequireAdmin creates middleware that requires a valid admin session
// cookie. The decoded session is stored in the request context.
func RequireAdmin(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, model.MsgUnauthorized)
				return
			}

			session, err := v.Validate(r.Context(), token)
			if err != nil {
				slog.Warn("admin access denied",
					"category", model.EventCategoryAuth,
					"reason", err.Error(),
					"ip", util.ClientIP(r),
					"path", r.URL.Path,
				)
				writeError(w, http.StatusUnauthorized, model.MsgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s model.AdminSession) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}

// GetSession retrieves the admin session from the request context.
// Returns nil if the request is not authenticated.
func GetSession(r *http.Request) *model.AdminSession {
	s, ok := r.Context().Value(ContextKeySession).(model.AdminSession)
	if !ok {
		return nil
	}
	return &s
}

// GetUserIDPtr returns a pointer to the admin's ID from context, or nil if not found.
// Useful for optional user ID parameters in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	s := GetSession(r)
	if s == nil {
		return nil
	}
	return &s.UserID
}

// GetUserEmail returns the admin's email from context, or empty string if not found.
func GetUserEmail(r *http.Request) string {
	if s := GetSession(r); s != nil {
		return s.Email
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
