// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/opinion-survey/internal/middleware"
)

// Route paths.
const (
	RouteSurvey       = "/api/survey"
	RouteSurveyExport = "/api/survey/export"
	RouteSurveyStats  = "/api/survey/stats"
	RouteLogin        = "/api/auth/login"
	RouteLogout       = "/api/auth/logout"
	RouteMe           = "/api/auth/me"
	RouteWizard       = "/survey/wizard"
	RouteHealth       = "/health"
)

// Router holds everything needed to build the HTTP routing tree.
type Router struct {
	Survey *SurveyHandler
	Wizard *WizardHandler
	Auth   *AuthHandler
	Health *HealthHandler

	// Sessions validates admin session cookies.
	Sessions middleware.SessionValidator

	// WizardSession loads and saves the visitor session around wizard
	// routes, typically scs.SessionManager.LoadAndSave.
	WizardSession func(http.Handler) http.Handler

	LoginProtection *middleware.LoginProtection
	SubmitLimiter   *middleware.RateLimiter

	Security middleware.SecurityHeadersConfig
	CSRF     middleware.CSRFConfig

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Handler builds the chi router.
func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if rt.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestPath)
	r.Use(middleware.SecurityHeaders(rt.Security))

	// Health checks (no CSRF, no session)
	r.Get(RouteHealth, rt.Health.Health)
	r.Get(RouteHealth+"/live", rt.Health.Liveness)
	r.Get(RouteHealth+"/ready", rt.Health.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(rt.CSRF))

		// Public submission
		if rt.SubmitLimiter != nil {
			r.With(rt.SubmitLimiter.Middleware()).Post(RouteSurvey, rt.Survey.Submit)
		} else {
			r.Post(RouteSurvey, rt.Survey.Submit)
		}

		// Wizard held in the visitor session
		r.Route(RouteWizard, func(r chi.Router) {
			if rt.WizardSession != nil {
				r.Use(rt.WizardSession)
			}
			r.Get("/", rt.Wizard.Get)
			r.Put("/draft", rt.Wizard.UpdateDraft)
			if rt.SubmitLimiter != nil {
				r.With(rt.SubmitLimiter.Middleware()).Post("/next", rt.Wizard.Next)
			} else {
				r.Post("/next", rt.Wizard.Next)
			}
			r.Post("/back", rt.Wizard.Back)
			r.Post("/reset", rt.Wizard.Reset)
		})

		// Admin authentication
		if rt.LoginProtection != nil {
			r.With(rt.LoginProtection.Middleware()).Post(RouteLogin, rt.Auth.Login)
		} else {
			r.Post(RouteLogin, rt.Auth.Login)
		}
		r.Post(RouteLogout, rt.Auth.Logout)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(rt.Sessions))
			r.Get(RouteMe, rt.Auth.Me)
			r.Get(RouteSurvey, rt.Survey.List)
			r.Get(RouteSurveyExport, rt.Survey.Export)
			r.Get(RouteSurveyStats, rt.Survey.Stats)
		})
	})

	return r
}
