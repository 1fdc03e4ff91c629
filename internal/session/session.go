// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps each visitor's survey wizard state in a
// SQLite-backed cookie session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/opinion-survey/internal/survey"
)

// Lifetime is how long an idle wizard is kept.
const Lifetime = 24 * time.Hour

const (
	cookieName     = "survey_session"
	cookieNameProd = "__Host-survey_session"
	wizardKey      = "wizard"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = cookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = cookieNameProd
	}

	return sm
}

// WizardStore loads and saves the wizard held in the request's session.
// The request must pass through the manager's LoadAndSave middleware.
type WizardStore struct {
	sm *scs.SessionManager
}

// NewWizardStore returns a store backed by sm.
func NewWizardStore(sm *scs.SessionManager) *WizardStore {
	return &WizardStore{sm: sm}
}

// Load returns the visitor's wizard, or a fresh one if none is stored.
func (s *WizardStore) Load(ctx context.Context) (survey.Wizard, error) {
	data := s.sm.GetBytes(ctx, wizardKey)
	if len(data) == 0 {
		return survey.New(), nil
	}
	var w survey.Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return survey.New(), fmt.Errorf("decoding wizard: %w", err)
	}
	return w, nil
}

// Save stores w in the visitor's session.
func (s *WizardStore) Save(ctx context.Context, w survey.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding wizard: %w", err)
	}
	s.sm.Put(ctx, wizardKey, data)
	return nil
}

// Clear drops the visitor's wizard and rotates the session token.
func (s *WizardStore) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, wizardKey)
	return s.sm.RenewToken(ctx)
}
