// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/opinion-survey/internal/auth"
	"github.com/olegiv/opinion-survey/internal/middleware"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/util"
)

// SessionManager issues, validates and revokes admin sessions.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (model.AdminSession, string, error)
	Validate(ctx context.Context, token string) (model.AdminSession, error)
	Logout(ctx context.Context, s model.AdminSession) error
}

// AuthEventLogger records authentication events in the audit log.
type AuthEventLogger interface {
	LogAuthEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error
}

// AuthHandler handles admin login, logout and session lookup.
type AuthHandler struct {
	sessions        SessionManager
	loginProtection *middleware.LoginProtection
	events          AuthEventLogger
	logger          *slog.Logger
	secureCookie    bool
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(sessions SessionManager, lp *middleware.LoginProtection, events AuthEventLogger, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		sessions:        sessions,
		loginProtection: lp,
		events:          events,
		logger:          logger,
		secureCookie:    secureCookie,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, model.MsgInvalidRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, model.MsgEmailPasswordRequired)
		return
	}

	ip := util.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logger.Warn("login attempt on locked account", "email", email, "ip", ip, "remaining", remaining)
			writeJSONError(w, http.StatusTooManyRequests, model.MsgTooManyAttempts)
			return
		}
	}

	session, token, err := h.sessions.Login(r.Context(), email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("login failed", "error", err, "ip", ip)
			writeJSONError(w, http.StatusInternalServerError, model.MsgLoginFailed)
			return
		}

		// Unknown email and wrong password take the same path.
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Failed login attempt", nil, ip,
			map[string]any{"email": email})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked", nil, ip,
					map[string]any{"email": email, "duration": lockDuration.String()})
				writeJSONError(w, http.StatusTooManyRequests, model.MsgTooManyAttempts)
				return
			}
		}
		writeJSONError(w, http.StatusUnauthorized, model.MsgInvalidCredentials)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	auth.SetSessionCookie(w, token, h.secureCookie)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged in", &session.UserID, ip, nil)
	h.logger.Info("admin logged in", "user_id", session.UserID, "ip", ip)

	writeJSONSuccess(w, map[string]any{
		"message": model.MsgLoginSuccess,
		"user":    session.Summary(),
	})
}

// Logout handles POST /api/auth/logout. The cookie is cleared even when the
// token is already invalid.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		if session, err := h.sessions.Validate(r.Context(), token); err == nil {
			if err := h.sessions.Logout(r.Context(), session); err != nil {
				h.logger.Error("session revocation failed", "error", err, "user_id", session.UserID)
			} else {
				_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged out", &session.UserID, util.ClientIP(r), nil)
			}
		}
	}

	auth.ClearSessionCookie(w, h.secureCookie)
	writeJSONSuccess(w, map[string]any{"message": model.MsgLogoutSuccess})
}

// Me handles GET /api/auth/me. It runs behind RequireAdmin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)
	if session == nil {
		writeJSONError(w, http.StatusUnauthorized, model.MsgUnauthorized)
		return
	}
	writeJSONSuccess(w, map[string]any{
		"user":      session.Summary(),
		"expiresAt": session.ExpiresAt,
	})
}
