// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/olegiv/opinion-survey/internal/cache"
	"github.com/olegiv/opinion-survey/internal/version"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RevocationReporter reports the state of the session revocation list.
type RevocationReporter interface {
	Status(ctx context.Context) (cache.RevocationStatus, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db          Pinger
	revocations RevocationReporter
	version     version.Info
	startTime   time.Time
}

// NewHealthHandler creates a new health handler. revocations may be nil.
func NewHealthHandler(db Pinger, revocations RevocationReporter, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:          db,
		revocations: revocations,
		version:     info,
		startTime:   time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Backend string `json:"backend,omitempty"`
	Active  *int   `json:"active,omitempty"`
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{"database": h.checkDatabase(r.Context())}
	if h.revocations != nil {
		checks["revocations"] = h.checkRevocations(r.Context())
	}

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		Checks:    checks,
	}

	code := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

// checkDatabase verifies database connectivity. Error details stay out of
// the response.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Latency: latency.String()}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

// checkRevocations verifies the revocation store. A failing store means
// logouts cannot be recorded.
func (h *HealthHandler) checkRevocations(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	st, err := h.revocations.Status(ctx)
	check := Check{Latency: time.Since(start).String(), Backend: st.Backend}
	if err != nil {
		check.Status = "unhealthy"
		return check
	}
	check.Status = "healthy"
	check.Active = &st.Active
	return check
}
