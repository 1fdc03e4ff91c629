// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/util"
)

// encodeSet renders a set column as JSON array text. nil becomes "[]".
func encodeSet[T ~string](vals []T) (string, error) {
	if vals == nil {
		vals = []T{}
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeSet parses a JSON array text column.
func decodeSet[T ~string](col, raw string) ([]T, error) {
	if raw == "" {
		return []T{}, nil
	}
	var vals []T
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", col, err)
	}
	if vals == nil {
		vals = []T{}
	}
	return vals, nil
}

// NewCreateSurveyResponseParams converts a domain response into a row.
func NewCreateSurveyResponseParams(r model.SurveyResponse) (CreateSurveyResponseParams, error) {
	factors, err := encodeSet(r.VotingFactors)
	if err != nil {
		return CreateSurveyResponseParams{}, fmt.Errorf("encoding voting_factors: %w", err)
	}
	interests, err := encodeSet(r.Interests)
	if err != nil {
		return CreateSurveyResponseParams{}, fmt.Errorf("encoding interests: %w", err)
	}
	concerns, err := encodeSet(r.Concerns)
	if err != nil {
		return CreateSurveyResponseParams{}, fmt.Errorf("encoding concerns: %w", err)
	}

	return CreateSurveyResponseParams{
		ID:                 r.ID,
		Age:                string(r.Age),
		Location:           string(r.Location),
		CityName:           util.NullStringFromValue(r.CityName),
		Occupation:         string(r.Occupation),
		OccupationOther:    util.NullStringFromValue(r.OccupationOther),
		WillVote:           string(r.WillVote),
		VotingFactors:      factors,
		WinningParty:       string(r.WinningParty),
		CompetitionLevel:   string(r.CompetitionLevel),
		CompetitionOther:   util.NullStringFromValue(r.CompetitionOther),
		Interests:          interests,
		Expectations:       string(r.Expectations),
		ExpectationsOther:  util.NullStringFromValue(r.ExpectationsOther),
		Concerns:           concerns,
		ConcernsOther:      util.NullStringFromValue(r.ConcernsOther),
		Confidence:         string(r.Confidence),
		AdditionalComments: util.NullStringFromValue(r.AdditionalComments),
		IpAddress:          r.IPAddress,
		UserAgent:          r.UserAgent,
		CountryCode:        r.CountryCode,
		CreatedAt:          r.CreatedAt.UTC(),
	}, nil
}

// ToModel converts a row into the domain response.
func (s SurveyResponse) ToModel() (model.SurveyResponse, error) {
	factors, err := decodeSet[model.VotingFactor]("voting_factors", s.VotingFactors)
	if err != nil {
		return model.SurveyResponse{}, err
	}
	interests, err := decodeSet[model.Interest]("interests", s.Interests)
	if err != nil {
		return model.SurveyResponse{}, err
	}
	concerns, err := decodeSet[model.Concern]("concerns", s.Concerns)
	if err != nil {
		return model.SurveyResponse{}, err
	}

	return model.SurveyResponse{
		ID: s.ID,
		Draft: model.Draft{
			Age:                model.Age(s.Age),
			Location:           model.Location(s.Location),
			CityName:           util.StringFromNull(s.CityName),
			Occupation:         model.Occupation(s.Occupation),
			OccupationOther:    util.StringFromNull(s.OccupationOther),
			WillVote:           model.VoteIntent(s.WillVote),
			VotingFactors:      factors,
			WinningParty:       model.Party(s.WinningParty),
			CompetitionLevel:   model.CompetitionLevel(s.CompetitionLevel),
			CompetitionOther:   util.StringFromNull(s.CompetitionOther),
			Interests:          interests,
			Expectations:       model.Expectation(s.Expectations),
			ExpectationsOther:  util.StringFromNull(s.ExpectationsOther),
			Concerns:           concerns,
			ConcernsOther:      util.StringFromNull(s.ConcernsOther),
			Confidence:         model.Confidence(s.Confidence),
			AdditionalComments: util.StringFromNull(s.AdditionalComments),
		},
		IPAddress:   s.IpAddress,
		UserAgent:   s.UserAgent,
		CountryCode: s.CountryCode,
		CreatedAt:   s.CreatedAt.UTC(),
	}, nil
}

// ToModels converts rows into domain responses, keeping order.
func ToModels(rows []SurveyResponse) ([]model.SurveyResponse, error) {
	out := make([]model.SurveyResponse, 0, len(rows))
	for _, r := range rows {
		m, err := r.ToModel()
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", r.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ToModel converts a users row into the domain account.
func (u User) ToModel() model.User {
	return model.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Name:         u.Name,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}
