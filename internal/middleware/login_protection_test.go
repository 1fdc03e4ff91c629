// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/opinion-survey/internal/model"
)

// testLoginProtectionConfig returns a config suitable for fast testing.
func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,  // High rate for testing
		IPBurst:           100, // High burst for testing
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func newTestLoginProtection(t *testing.T, cfg LoginProtectionConfig) *LoginProtection {
	t.Helper()
	lp := NewLoginProtection(cfg)
	t.Cleanup(lp.Stop)
	return lp
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := newTestLoginProtection(t, LoginProtectionConfig{})

	assert.Equal(t, 5, lp.maxFailedAttempts)
	assert.Equal(t, 15*time.Minute, lp.lockoutDuration)
	assert.Equal(t, 15*time.Minute, lp.attemptWindow)

	def := DefaultLoginProtectionConfig()
	assert.Equal(t, 0.5, def.IPRateLimit)
	assert.Equal(t, 5, def.IPBurst)
}

func TestLoginProtectionLockout(t *testing.T) {
	cfg := testLoginProtectionConfig(3, time.Second, time.Minute)
	lp := newTestLoginProtection(t, cfg)
	email := "admin@myanmar-survey.com"

	locked, _ := lp.IsAccountLocked(email)
	assert.False(t, locked)

	locked, _ = lp.RecordFailedAttempt(email)
	assert.False(t, locked)
	locked, _ = lp.RecordFailedAttempt(email)
	assert.False(t, locked)
	locked, duration := lp.RecordFailedAttempt(email)
	assert.True(t, locked)
	assert.Equal(t, time.Second, duration)

	locked, remaining := lp.IsAccountLocked(email)
	assert.True(t, locked)
	assert.Positive(t, remaining)

	time.Sleep(cfg.LockoutDuration + 100*time.Millisecond)

	locked, _ = lp.IsAccountLocked(email)
	assert.False(t, locked)
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp := newTestLoginProtection(t, testLoginProtectionConfig(2, time.Minute, time.Minute))

	lp.RecordFailedAttempt("Admin@Myanmar-Survey.com")
	locked, _ := lp.RecordFailedAttempt(" admin@myanmar-survey.com ")
	assert.True(t, locked)

	locked, _ = lp.IsAccountLocked("ADMIN@MYANMAR-SURVEY.COM")
	assert.True(t, locked)
}

func TestLoginProtectionUnknownEmailIsTrackedLikeKnown(t *testing.T) {
	lp := newTestLoginProtection(t, testLoginProtectionConfig(2, time.Minute, time.Minute))

	lp.RecordFailedAttempt("nobody@example.com")
	locked, _ := lp.RecordFailedAttempt("nobody@example.com")
	assert.True(t, locked)
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	cfg := testLoginProtectionConfig(3, time.Minute, time.Minute)
	lp := newTestLoginProtection(t, cfg)
	email := "admin@myanmar-survey.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	assert.Equal(t, 1, lp.GetRemainingAttempts(email))

	lp.RecordSuccessfulLogin(email)
	assert.Equal(t, cfg.MaxFailedAttempts, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	cfg := testLoginProtectionConfig(2, 100*time.Millisecond, time.Minute)
	lp := newTestLoginProtection(t, cfg)
	email := "admin@myanmar-survey.com"

	lp.RecordFailedAttempt(email)
	_, duration1 := lp.RecordFailedAttempt(email)

	time.Sleep(duration1 + 10*time.Millisecond)

	lp.RecordFailedAttempt(email)
	_, duration2 := lp.RecordFailedAttempt(email)

	assert.Equal(t, 2*duration1, duration2)
}

func TestLoginProtectionAttemptWindowReset(t *testing.T) {
	cfg := testLoginProtectionConfig(5, time.Minute, 100*time.Millisecond)
	lp := newTestLoginProtection(t, cfg)
	email := "admin@myanmar-survey.com"

	lp.RecordFailedAttempt(email)
	assert.Equal(t, 4, lp.GetRemainingAttempts(email))

	time.Sleep(cfg.AttemptWindow + 50*time.Millisecond)

	assert.Equal(t, cfg.MaxFailedAttempts, lp.GetRemainingAttempts(email))
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	cfg := testLoginProtectionConfig(5, 10*time.Millisecond, 10*time.Millisecond)
	lp := newTestLoginProtection(t, cfg)

	lp.RecordFailedAttempt("admin@myanmar-survey.com")
	time.Sleep(30 * time.Millisecond)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	assert.Empty(t, lp.failedAttempts)
}

func TestLoginProtectionMiddleware(t *testing.T) {
	cfg := LoginProtectionConfig{
		IPRateLimit:       0.001,
		IPBurst:           2,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	}
	lp := newTestLoginProtection(t, cfg)

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)

	rr := post()
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, model.MsgTooManyAttempts, body["error"])

	// GET requests are never limited
	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	get := httptest.NewRecorder()
	wrapped.ServeHTTP(get, req)
	assert.Equal(t, http.StatusOK, get.Code)
}

func TestLoginProtectionMiddlewareIgnoresForwardedHeaders(t *testing.T) {
	lp := newTestLoginProtection(t, LoginProtectionConfig{
		IPRateLimit:       0.001,
		IPBurst:           1,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(spoofed string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, post("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, post("198.51.100.3"))
}

func TestLoginProtectionStopIsIdempotent(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())
	lp.Stop()
	lp.Stop()
}
