// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/survey"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

// fakeResponses is an in-memory ResponseStore that records every call.
type fakeResponses struct {
	mu          sync.Mutex
	createCalls int
	created     []service.Submission
	stored      []model.SurveyResponse
	createErr   error
	listErr     error
	from, to    *time.Time
}

func (f *fakeResponses) Create(_ context.Context, sub service.Submission) (model.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.created = append(f.created, sub)
	if f.createErr != nil {
		return model.SurveyResponse{}, f.createErr
	}
	resp := model.SurveyResponse{
		ID:        uuid.NewString(),
		Draft:     survey.Normalize(sub.Draft),
		IPAddress: sub.IPAddress,
		UserAgent: sub.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	f.stored = append(f.stored, resp)
	return resp, nil
}

func (f *fakeResponses) Recent(_ context.Context, _ int) ([]model.SurveyResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeResponses) Between(_ context.Context, from, to *time.Time) ([]model.SurveyResponse, error) {
	f.from, f.to = from, to
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeResponses) Creator(ipAddress, userAgent string) survey.Creator {
	return survey.CreatorFunc(func(ctx context.Context, d model.Draft) (string, error) {
		resp, err := f.Create(ctx, service.Submission{Draft: d, IPAddress: ipAddress, UserAgent: userAgent})
		if err != nil {
			return "", err
		}
		return resp.ID, nil
	})
}

type fakeStats struct {
	stats transfer.Stats
	err   error
}

func (f fakeStats) Compute(context.Context) (transfer.Stats, error) {
	return f.stats, f.err
}

type loggedEvent struct {
	level    string
	message  string
	userID   *int64
	metadata map[string]any
}

// fakeEvents records audit events.
type fakeEvents struct {
	mu     sync.Mutex
	auth   []loggedEvent
	export []loggedEvent
}

func (f *fakeEvents) LogAuthEvent(_ context.Context, level, message string, userID *int64, _ string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, loggedEvent{level: level, message: message, userID: userID, metadata: metadata})
	return nil
}

func (f *fakeEvents) LogExportEvent(_ context.Context, message string, userID *int64, _, _ string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.export = append(f.export, loggedEvent{level: model.EventLevelInfo, message: message, userID: userID, metadata: metadata})
	return nil
}

// memWizardSessions keeps a single wizard in memory.
type memWizardSessions struct {
	w       *survey.Wizard
	loadErr error
	cleared int
}

func (m *memWizardSessions) Load(context.Context) (survey.Wizard, error) {
	if m.loadErr != nil {
		return survey.New(), m.loadErr
	}
	if m.w == nil {
		return survey.New(), nil
	}
	return *m.w, nil
}

func (m *memWizardSessions) Save(_ context.Context, w survey.Wizard) error {
	m.w = &w
	return nil
}

func (m *memWizardSessions) Clear(context.Context) error {
	m.w = nil
	m.cleared++
	return nil
}

var errStoreDown = errors.New("database is locked")

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody parses a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", w.Body.String(), err)
	}
	return resp
}
