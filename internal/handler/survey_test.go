// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/opinion-survey/internal/middleware"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/survey"
	"github.com/olegiv/opinion-survey/internal/testutil"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

var exportTime = time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)

func newTestSurveyHandler(responses ResponseStore) (*SurveyHandler, *fakeEvents) {
	events := &fakeEvents{}
	h := NewSurveyHandler(responses, fakeStats{stats: transfer.Stats{Total: 3, Today: 1}}, events, testutil.TestLoggerSilent())
	h.now = func() time.Time { return exportTime }
	return h, events
}

func TestSubmit_IncompleteDraftRejectedWithoutStoreCall(t *testing.T) {
	tests := []struct {
		name  string
		draft model.Draft
		field string
	}{
		{"empty draft", model.Draft{}, survey.FieldAge},
		{"urban without city", func() model.Draft {
			d := testutil.CompleteDraft()
			d.CityName = "  "
			return d
		}(), survey.FieldCityName},
		{"other concern without text", func() model.Draft {
			d := testutil.CompleteDraft()
			d.Concerns = []model.Concern{model.ConcernOther}
			return d
		}(), survey.FieldConcernsOther},
		{"markup-only city", func() model.Draft {
			d := testutil.CompleteDraft()
			d.CityName = "<script>alert(1)</script>"
			return d
		}(), survey.FieldCityName},
		{"markup-only occupation other", func() model.Draft {
			d := testutil.CompleteDraft()
			d.Occupation = model.OccupationOther
			d.OccupationOther = "<b></b>"
			return d
		}(), survey.FieldOccupationOther},
		{"unknown age bracket", func() model.Draft {
			d := testutil.CompleteDraft()
			d.Age = "17"
			return d
		}(), survey.FieldAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeResponses{}
			h, _ := newTestSurveyHandler(store)

			w := httptest.NewRecorder()
			h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, tt.draft))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeBody(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, model.MsgRequiredFields, resp["error"])

			details, ok := resp["details"].([]any)
			require.True(t, ok, "details = %v", resp["details"])
			require.NotEmpty(t, details)
			assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)

			assert.Equal(t, 0, store.createCalls)
		})
	}
}

func TestSubmit_MalformedBody(t *testing.T) {
	store := &fakeResponses{}
	h, _ := newTestSurveyHandler(store)

	w := httptest.NewRecorder()
	h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, `{"age":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.MsgInvalidRequest, decodeBody(t, w)["error"])
	assert.Equal(t, 0, store.createCalls)
}

func TestSubmit_Success(t *testing.T) {
	store := &fakeResponses{}
	h, _ := newTestSurveyHandler(store)

	req := jsonRequest(t, http.MethodPost, RouteSurvey, testutil.CompleteDraft())
	req.RemoteAddr = "203.0.113.9:51000"
	req.Header.Set("X-Forwarded-For", "198.51.100.250")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14)")
	w := httptest.NewRecorder()
	h.Submit(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, model.MsgSubmitSuccess, resp["message"])
	assert.NotEmpty(t, resp["id"])

	require.Equal(t, 1, store.createCalls)
	assert.Equal(t, "203.0.113.9", store.created[0].IPAddress)
	assert.Equal(t, "Mozilla/5.0 (Linux; Android 14)", store.created[0].UserAgent)
	assert.Equal(t, "Yangon", store.created[0].Draft.CityName)
}

func TestSubmit_StoreFailure(t *testing.T) {
	store := &fakeResponses{createErr: errStoreDown}
	h, _ := newTestSurveyHandler(store)

	w := httptest.NewRecorder()
	h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, testutil.CompleteDraft()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, model.MsgSubmitFailed, resp["error"])
	assert.NotContains(t, w.Body.String(), errStoreDown.Error())
}

func TestSubmit_MarkupOnlyOtherTextNotStored(t *testing.T) {
	db := testutil.MemoryDB(t)
	responses := service.NewResponseService(db, nil)
	h, _ := newTestSurveyHandler(responses)

	d := testutil.CompleteDraft()
	d.CityName = "<script>alert(1)</script>"
	d.Occupation = model.OccupationOther
	d.OccupationOther = "<b></b>"

	w := httptest.NewRecorder()
	h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, d))

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"field":"`+survey.FieldCityName+`"`)
	assert.Contains(t, w.Body.String(), `"field":"`+survey.FieldOccupationOther+`"`)

	stored, err := responses.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSubmit_IdenticalSubmissionsGetDistinctIDs(t *testing.T) {
	db := testutil.MemoryDB(t)
	h, _ := newTestSurveyHandler(service.NewResponseService(db, nil))

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, testutil.CompleteDraft()))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		id, _ := decodeBody(t, w)["id"].(string)
		require.NotEmpty(t, id)
		ids[id] = true
	}
	assert.Len(t, ids, 3)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, RouteSurvey, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Responses []model.SurveyResponse `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Responses, 3)
	assert.Equal(t, model.LocationUrban, body.Responses[0].Location)
}

func TestList_Empty(t *testing.T) {
	h, _ := newTestSurveyHandler(&fakeResponses{})

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, RouteSurvey, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"responses":[]}`, w.Body.String())
}

func TestList_StoreFailure(t *testing.T) {
	h, _ := newTestSurveyHandler(&fakeResponses{listErr: errStoreDown})

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, RouteSurvey, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, model.MsgFetchFailed, decodeBody(t, w)["error"])
}

func storeWithTwoResponses(t *testing.T) *fakeResponses {
	t.Helper()

	store := &fakeResponses{}
	h, _ := newTestSurveyHandler(store)
	for _, city := range []string{"Yangon", `Mandalay "Royal"`} {
		d := testutil.CompleteDraft()
		d.CityName = city
		d.Interests = []model.Interest{model.InterestEconomy, model.InterestDemocracy}
		w := httptest.NewRecorder()
		h.Submit(w, jsonRequest(t, http.MethodPost, RouteSurvey, d))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	return store
}

func TestExport_CSVTwoRecords(t *testing.T) {
	store := storeWithTwoResponses(t)
	h, events := newTestSurveyHandler(store)

	req := httptest.NewRequest(http.MethodGet, RouteSurveyExport+"?format=csv", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), model.AdminSession{UserID: 7, Role: model.RoleAdmin}))
	w := httptest.NewRecorder()
	h.Export(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="myanmar-survey-2025-11-02.csv"`, w.Header().Get("Content-Disposition"))

	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"ID","Age","Location","City Name"`))
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}
	assert.Contains(t, lines[1], `"[""economy"",""democracy""]"`)
	assert.Contains(t, w.Body.String(), `"Mandalay ""Royal"""`)

	require.Len(t, events.export, 1)
	require.NotNil(t, events.export[0].userID)
	assert.Equal(t, int64(7), *events.export[0].userID)
	assert.Equal(t, 2, events.export[0].metadata["count"])
}

func TestExport_DefaultsToCSV(t *testing.T) {
	h, _ := newTestSurveyHandler(&fakeResponses{})

	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest(http.MethodGet, RouteSurveyExport, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, len(strings.Split(w.Body.String(), "\n")))
}

func TestExport_JSONEnvelope(t *testing.T) {
	store := storeWithTwoResponses(t)
	h, _ := newTestSurveyHandler(store)

	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest(http.MethodGet, RouteSurveyExport+"?format=json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="myanmar-survey-2025-11-02.json"`, w.Header().Get("Content-Disposition"))

	var env transfer.JSONExport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Total)
	assert.Len(t, env.Responses, 2)
	assert.True(t, env.ExportDate.Equal(exportTime))
}

func TestExport_DateBounds(t *testing.T) {
	store := &fakeResponses{}
	h, _ := newTestSurveyHandler(store)

	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest(http.MethodGet, RouteSurveyExport+"?startDate=2025-11-01&endDate=2025-11-02", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, store.from)
	require.NotNil(t, store.to)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), *store.from)
	assert.Equal(t, time.Date(2025, 11, 2, 23, 59, 59, 999999999, time.UTC), *store.to)
}

func TestExport_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown format", "?format=xml"},
		{"bad start date", "?startDate=yesterday"},
		{"bad end date", "?endDate=2025-13-45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeResponses{}
			h, events := newTestSurveyHandler(store)

			w := httptest.NewRecorder()
			h.Export(w, httptest.NewRequest(http.MethodGet, RouteSurveyExport+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decodeBody(t, w)["success"])
			assert.Nil(t, store.from)
			assert.Empty(t, events.export)
		})
	}
}

func TestExport_StoreFailure(t *testing.T) {
	h, events := newTestSurveyHandler(&fakeResponses{listErr: errStoreDown})

	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest(http.MethodGet, RouteSurveyExport, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, model.MsgExportFailed, decodeBody(t, w)["error"])
	assert.Empty(t, events.export)
}

func TestStats(t *testing.T) {
	h, _ := newTestSurveyHandler(&fakeResponses{})

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, RouteSurveyStats, nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(3), resp["total"])
	assert.Equal(t, float64(1), resp["today"])
}

func TestStats_Failure(t *testing.T) {
	h := NewSurveyHandler(&fakeResponses{}, fakeStats{err: errStoreDown}, &fakeEvents{}, testutil.TestLoggerSilent())

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, RouteSurveyStats, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
