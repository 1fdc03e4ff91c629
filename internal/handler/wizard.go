// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/survey"
	"github.com/olegiv/opinion-survey/internal/util"
)

// WizardSessions holds one wizard per visitor session.
type WizardSessions interface {
	Load(ctx context.Context) (survey.Wizard, error)
	Save(ctx context.Context, w survey.Wizard) error
	Clear(ctx context.Context) error
}

// CreatorFactory returns a creator that stores submissions with the given
// request metadata.
type CreatorFactory interface {
	Creator(ipAddress, userAgent string) survey.Creator
}

// WizardHandler exposes the multi-step form held in the visitor's session.
type WizardHandler struct {
	sessions WizardSessions
	creators CreatorFactory
	logger   *slog.Logger
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(sessions WizardSessions, creators CreatorFactory, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{
		sessions: sessions,
		creators: creators,
		logger:   logger,
	}
}

// wizardView is the wizard state plus whether the current step passes.
type wizardView struct {
	survey.Wizard
	Valid      bool `json:"valid"`
	TotalSteps int  `json:"totalSteps"`
}

func newWizardView(w survey.Wizard) wizardView {
	return wizardView{Wizard: w, Valid: w.Valid(), TotalSteps: survey.StepReview + 1}
}

// load returns the stored wizard. A corrupt session value is replaced with
// a fresh wizard.
func (h *WizardHandler) load(r *http.Request) survey.Wizard {
	w, err := h.sessions.Load(r.Context())
	if err != nil {
		h.logger.Warn("discarding unreadable wizard state", "error", err, "ip", util.ClientIP(r))
	}
	return w
}

func (h *WizardHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, status int, wz survey.Wizard) {
	if err := h.sessions.Save(r.Context(), wz); err != nil {
		h.logger.Error("saving wizard state failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, model.MsgSessionFailed)
		return
	}
	writeJSON(w, status, newWizardView(wz))
}

// Get handles GET /survey/wizard.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newWizardView(h.load(r)))
}

// UpdateDraft handles PUT /survey/wizard/draft.
func (h *WizardHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeJSONError(w, http.StatusBadRequest, model.MsgInvalidRequest)
		return
	}
	h.saveAndRespond(w, r, http.StatusOK, h.load(r).Update(d))
}

// Next handles POST /survey/wizard/next. On the review step it submits the
// draft; a store failure keeps the wizard on review and answers 500.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	ip := util.ClientIP(r)
	creator := h.creators.Creator(ip, util.UserAgent(r))

	next, err := h.load(r).Advance(r.Context(), creator)
	if err != nil {
		h.logger.Error("wizard survey submission failed", "error", err, "ip", ip)
		h.saveAndRespond(w, r, http.StatusInternalServerError, next)
		return
	}
	if next.Complete && next.ResponseID != "" {
		h.logger.Info("survey submission stored", "id", next.ResponseID, "via", "wizard")
	}
	h.saveAndRespond(w, r, http.StatusOK, next)
}

// Back handles POST /survey/wizard/back.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.saveAndRespond(w, r, http.StatusOK, h.load(r).Retreat())
}

// Reset handles POST /survey/wizard/reset. It drops the stored wizard and
// rotates the session token.
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		h.logger.Error("clearing wizard state failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, model.MsgSessionFailed)
		return
	}
	writeJSON(w, http.StatusOK, newWizardView(survey.New()))
}
