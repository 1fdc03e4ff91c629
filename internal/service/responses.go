// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
	"github.com/olegiv/opinion-survey/internal/survey"
)

// RecentLimit is the number of responses shown on the dashboard.
const RecentLimit = 100

// CountryResolver maps an address to an ISO country code.
type CountryResolver interface {
	Country(ip string) string
}

// Submission is a validated draft plus the request metadata captured with it.
type Submission struct {
	Draft     model.Draft
	IPAddress string
	UserAgent string
}

// ResponseService stores and reads survey responses.
type ResponseService struct {
	queries   *store.Queries
	countries CountryResolver
	now       func() time.Time
}

// NewResponseService creates a ResponseService. countries may be nil.
func NewResponseService(db store.DBTX, countries CountryResolver) *ResponseService {
	return &ResponseService{
		queries:   store.New(db),
		countries: countries,
		now:       time.Now,
	}
}

// Create persists a submission under a fresh id. The draft is normalized
// before it is written, and a normalized draft that no longer passes every
// step is rejected with survey.ValidationErrors.
func (s *ResponseService) Create(ctx context.Context, sub Submission) (model.SurveyResponse, error) {
	draft := survey.Normalize(sub.Draft)
	if errs := survey.ValidateAll(draft); len(errs) > 0 {
		return model.SurveyResponse{}, errs
	}

	resp := model.SurveyResponse{
		ID:        uuid.NewString(),
		Draft:     draft,
		IPAddress: sub.IPAddress,
		UserAgent: sub.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if s.countries != nil {
		resp.CountryCode = s.countries.Country(sub.IPAddress)
	}

	params, err := store.NewCreateSurveyResponseParams(resp)
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("preparing response: %w", err)
	}

	row, err := s.queries.CreateSurveyResponse(ctx, params)
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("creating response: %w", err)
	}

	return row.ToModel()
}

// Creator adapts the service to the wizard's submit step for one request.
func (s *ResponseService) Creator(ipAddress, userAgent string) survey.Creator {
	return survey.CreatorFunc(func(ctx context.Context, d model.Draft) (string, error) {
		resp, err := s.Create(ctx, Submission{Draft: d, IPAddress: ipAddress, UserAgent: userAgent})
		if err != nil {
			return "", err
		}
		return resp.ID, nil
	})
}

// Recent returns up to limit responses, newest first.
func (s *ResponseService) Recent(ctx context.Context, limit int) ([]model.SurveyResponse, error) {
	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}
	rows, err := s.queries.ListRecentSurveyResponses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	return store.ToModels(rows)
}

// Between returns every response created within [from, to], newest first.
// A nil bound is open.
func (s *ResponseService) Between(ctx context.Context, from, to *time.Time) ([]model.SurveyResponse, error) {
	var params store.ListSurveyResponsesBetweenParams
	if from != nil {
		params.From = sql.NullTime{Time: from.UTC(), Valid: true}
	}
	if to != nil {
		params.To = sql.NullTime{Time: to.UTC(), Valid: true}
	}

	rows, err := s.queries.ListSurveyResponsesBetween(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("listing responses for export: %w", err)
	}
	return store.ToModels(rows)
}
