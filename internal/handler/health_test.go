// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/opinion-survey/internal/cache"
	"github.com/olegiv/opinion-survey/internal/testutil"
	"github.com/olegiv/opinion-survey/internal/version"
)

func newTestHealthHandler(t *testing.T) *HealthHandler {
	t.Helper()
	return NewHealthHandler(testutil.MemoryDB(t), nil, version.Info{Version: "v1.2.3", GitCommit: "abc1234"})
}

func TestHealthHandler_Health(t *testing.T) {
	handler := newTestHealthHandler(t)

	req := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q; want healthy", resp.Status)
	}
	if resp.Checks["database"].Status != "healthy" {
		t.Errorf("database check = %q; want healthy", resp.Checks["database"].Status)
	}
	if resp.Version != "v1.2.3 (commit: abc1234, built: unknown)" {
		t.Errorf("version = %q", resp.Version)
	}
}

func TestHealthHandler_UnhealthyDatabase(t *testing.T) {
	db := testutil.MemoryDB(t)
	handler := NewHealthHandler(db, nil, version.Info{})
	_ = db.Close()

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want %d", w.Code, http.StatusServiceUnavailable)
	}

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q; want degraded", resp.Status)
	}
}

func TestHealthHandler_RevocationsReported(t *testing.T) {
	keys := cache.NewMemoryKeySet(cache.MemoryOptions{})
	t.Cleanup(func() { _ = keys.Close() })
	revocations := cache.NewRevocationList(keys, cache.BackendMemory)
	if err := revocations.Revoke(context.Background(), "jti-1", time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	handler := NewHealthHandler(testutil.MemoryDB(t), revocations, version.Info{})
	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	check, ok := resp.Checks["revocations"]
	if !ok {
		t.Fatal("revocations check missing")
	}
	if check.Status != "healthy" || check.Backend != cache.BackendMemory {
		t.Errorf("revocations check = %+v", check)
	}
	if check.Active == nil || *check.Active != 1 {
		t.Errorf("active revocations = %v; want 1", check.Active)
	}
}

func TestHealthHandler_RevocationStoreDownDegrades(t *testing.T) {
	keys := cache.NewMemoryKeySet(cache.MemoryOptions{})
	revocations := cache.NewRevocationList(keys, cache.BackendMemory)
	_ = keys.Close()

	handler := NewHealthHandler(testutil.MemoryDB(t), revocations, version.Info{})
	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want %d", w.Code, http.StatusServiceUnavailable)
	}
	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q; want degraded", resp.Status)
	}
	if got := resp.Checks["revocations"].Status; got != "unhealthy" {
		t.Errorf("revocations check = %q; want unhealthy", got)
	}
	if resp.Checks["database"].Status != "healthy" {
		t.Error("database check should stay healthy")
	}
}

func checkHealthEndpoint(t *testing.T, handlerFn http.HandlerFunc, wantCode int, wantStatus string) {
	t.Helper()

	w := httptest.NewRecorder()
	handlerFn(w, httptest.NewRequest(http.MethodGet, RouteHealth, nil))

	if w.Code != wantCode {
		t.Errorf("status code = %d; want %d", w.Code, wantCode)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != wantStatus {
		t.Errorf("status = %q; want %q", resp["status"], wantStatus)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	checkHealthEndpoint(t, newTestHealthHandler(t).Liveness, http.StatusOK, "alive")
}

func TestHealthHandler_Readiness(t *testing.T) {
	checkHealthEndpoint(t, newTestHealthHandler(t).Readiness, http.StatusOK, "ready")
}

func TestHealthHandler_Readiness_NotReady(t *testing.T) {
	db := testutil.MemoryDB(t)
	handler := NewHealthHandler(db, nil, version.Info{})
	_ = db.Close()

	checkHealthEndpoint(t, handler.Readiness, http.StatusServiceUnavailable, "not_ready")
}
