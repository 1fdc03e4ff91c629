// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/opinion-survey/internal/middleware"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/survey"
	"github.com/olegiv/opinion-survey/internal/transfer"
	"github.com/olegiv/opinion-survey/internal/util"
)

// ResponseStore persists and reads survey responses.
type ResponseStore interface {
	Create(ctx context.Context, sub service.Submission) (model.SurveyResponse, error)
	Recent(ctx context.Context, limit int) ([]model.SurveyResponse, error)
	Between(ctx context.Context, from, to *time.Time) ([]model.SurveyResponse, error)
}

// StatsComputer produces dashboard statistics.
type StatsComputer interface {
	Compute(ctx context.Context) (transfer.Stats, error)
}

// ExportLogger records completed exports in the audit log.
type ExportLogger interface {
	LogExportEvent(ctx context.Context, message string, userID *int64, ipAddress, requestURL string, metadata map[string]any) error
}

// SurveyHandler serves the public submission endpoint and the admin data
// endpoints.
type SurveyHandler struct {
	responses ResponseStore
	stats     StatsComputer
	events    ExportLogger
	logger    *slog.Logger
	now       func() time.Time
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(responses ResponseStore, stats StatsComputer, events ExportLogger, logger *slog.Logger) *SurveyHandler {
	return &SurveyHandler{
		responses: responses,
		stats:     stats,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit handles POST /api/survey.
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeJSONError(w, http.StatusBadRequest, model.MsgInvalidRequest)
		return
	}

	if errs := survey.ValidateAll(draft); len(errs) > 0 {
		writeJSONErrorDetails(w, http.StatusBadRequest, model.MsgRequiredFields, errs)
		return
	}

	ip := util.ClientIP(r)
	resp, err := h.responses.Create(r.Context(), service.Submission{
		Draft:     draft,
		IPAddress: ip,
		UserAgent: util.UserAgent(r),
	})
	var verrs survey.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSONErrorDetails(w, http.StatusBadRequest, model.MsgRequiredFields, verrs)
		return
	}
	if err != nil {
		h.logger.Error("survey submission failed", "error", err, "ip", ip)
		writeJSONError(w, http.StatusInternalServerError, model.MsgSubmitFailed)
		return
	}

	h.logger.Info("survey submission stored", "id", resp.ID, "country", resp.CountryCode)
	writeJSONSuccessStatus(w, http.StatusCreated, map[string]any{
		"message": model.MsgSubmitSuccess,
		"id":      resp.ID,
	})
}

// List handles GET /api/survey.
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responses.Recent(r.Context(), service.RecentLimit)
	if err != nil {
		h.logger.Error("listing survey responses failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, model.MsgFetchFailed)
		return
	}
	if responses == nil {
		responses = []model.SurveyResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": responses})
}

// Export handles GET /api/survey/export.
func (h *SurveyHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := transfer.ParseFormat(q.Get("format"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, err := transfer.ParseBound(q.Get("startDate"), false)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := transfer.ParseBound(q.Get("endDate"), true)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	responses, err := h.responses.Between(r.Context(), from, to)
	if err != nil {
		h.logger.Error("export query failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, model.MsgExportFailed)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := transfer.Write(&buf, format, responses, now); err != nil {
		h.logger.Error("export rendering failed", "error", err, "format", format)
		writeJSONError(w, http.StatusInternalServerError, model.MsgExportFailed)
		return
	}

	_ = h.events.LogExportEvent(r.Context(), "survey responses exported",
		middleware.GetUserIDPtr(r), util.ClientIP(r), r.URL.Path,
		map[string]any{
			"format":    string(format),
			"count":     len(responses),
			"startDate": q.Get("startDate"),
			"endDate":   q.Get("endDate"),
		})

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(now)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Stats handles GET /api/survey/stats.
func (h *SurveyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Compute(r.Context())
	if err != nil {
		h.logger.Error("computing survey stats failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, model.MsgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
