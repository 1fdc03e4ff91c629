// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const surveyResponseColumns = `id, age, location, city_name, occupation, occupation_other,
	will_vote, voting_factors, winning_party, competition_level, competition_other,
	interests, expectations, expectations_other, concerns, concerns_other,
	confidence, additional_comments, ip_address, user_agent, country_code, created_at`

func scanSurveyResponse(row interface{ Scan(...any) error }) (SurveyResponse, error) {
	var i SurveyResponse
	err := row.Scan(
		&i.ID,
		&i.Age,
		&i.Location,
		&i.CityName,
		&i.Occupation,
		&i.OccupationOther,
		&i.WillVote,
		&i.VotingFactors,
		&i.WinningParty,
		&i.CompetitionLevel,
		&i.CompetitionOther,
		&i.Interests,
		&i.Expectations,
		&i.ExpectationsOther,
		&i.Concerns,
		&i.ConcernsOther,
		&i.Confidence,
		&i.AdditionalComments,
		&i.IpAddress,
		&i.UserAgent,
		&i.CountryCode,
		&i.CreatedAt,
	)
	return i, err
}

func scanSurveyResponses(rows *sql.Rows) ([]SurveyResponse, error) {
	defer func() { _ = rows.Close() }()
	items := []SurveyResponse{}
	for rows.Next() {
		i, err := scanSurveyResponse(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSurveyResponse = `-- name: CreateSurveyResponse :one
INSERT INTO survey_responses (` + surveyResponseColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + surveyResponseColumns

// CreateSurveyResponseParams holds every column of a new response.
type CreateSurveyResponseParams SurveyResponse

// CreateSurveyResponse inserts a response in a single statement.
func (q *Queries) CreateSurveyResponse(ctx context.Context, arg CreateSurveyResponseParams) (SurveyResponse, error) {
	row := q.db.QueryRowContext(ctx, createSurveyResponse,
		arg.ID,
		arg.Age,
		arg.Location,
		arg.CityName,
		arg.Occupation,
		arg.OccupationOther,
		arg.WillVote,
		arg.VotingFactors,
		arg.WinningParty,
		arg.CompetitionLevel,
		arg.CompetitionOther,
		arg.Interests,
		arg.Expectations,
		arg.ExpectationsOther,
		arg.Concerns,
		arg.ConcernsOther,
		arg.Confidence,
		arg.AdditionalComments,
		arg.IpAddress,
		arg.UserAgent,
		arg.CountryCode,
		arg.CreatedAt,
	)
	return scanSurveyResponse(row)
}

const getSurveyResponse = `-- name: GetSurveyResponse :one
SELECT ` + surveyResponseColumns + ` FROM survey_responses WHERE id = ?`

// GetSurveyResponse returns one response by id.
func (q *Queries) GetSurveyResponse(ctx context.Context, id string) (SurveyResponse, error) {
	return scanSurveyResponse(q.db.QueryRowContext(ctx, getSurveyResponse, id))
}

const listRecentSurveyResponses = `-- name: ListRecentSurveyResponses :many
SELECT ` + surveyResponseColumns + ` FROM survey_responses
ORDER BY created_at DESC, rowid DESC
LIMIT ?`

// ListRecentSurveyResponses returns up to limit responses, newest first.
func (q *Queries) ListRecentSurveyResponses(ctx context.Context, limit int64) ([]SurveyResponse, error) {
	rows, err := q.db.QueryContext(ctx, listRecentSurveyResponses, limit)
	if err != nil {
		return nil, err
	}
	return scanSurveyResponses(rows)
}

const listSurveyResponsesBetween = `-- name: ListSurveyResponsesBetween :many
SELECT ` + surveyResponseColumns + ` FROM survey_responses
WHERE (?1 IS NULL OR created_at >= ?1)
  AND (?2 IS NULL OR created_at <= ?2)
ORDER BY created_at DESC, rowid DESC`

// ListSurveyResponsesBetweenParams bounds an export. A NULL bound is open.
type ListSurveyResponsesBetweenParams struct {
	From sql.NullTime `json:"from"`
	To   sql.NullTime `json:"to"`
}

// ListSurveyResponsesBetween returns responses created within the inclusive
// range, newest first.
func (q *Queries) ListSurveyResponsesBetween(ctx context.Context, arg ListSurveyResponsesBetweenParams) ([]SurveyResponse, error) {
	rows, err := q.db.QueryContext(ctx, listSurveyResponsesBetween, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	return scanSurveyResponses(rows)
}

const countSurveyResponses = `-- name: CountSurveyResponses :one
SELECT COUNT(*) FROM survey_responses`

// CountSurveyResponses returns the number of stored responses.
func (q *Queries) CountSurveyResponses(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSurveyResponses).Scan(&count)
	return count, err
}

const countSurveyResponsesSince = `-- name: CountSurveyResponsesSince :one
SELECT COUNT(*) FROM survey_responses WHERE created_at >= ?`

// CountSurveyResponsesSince returns the number of responses created at or
// after since.
func (q *Queries) CountSurveyResponsesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSurveyResponsesSince, since).Scan(&count)
	return count, err
}

// GroupColumn names a single-choice column that can be counted by value.
type GroupColumn string

// Groupable columns.
const (
	GroupByAge          GroupColumn = "age"
	GroupByLocation     GroupColumn = "location"
	GroupByOccupation   GroupColumn = "occupation"
	GroupByWillVote     GroupColumn = "will_vote"
	GroupByWinningParty GroupColumn = "winning_party"
	GroupByConfidence   GroupColumn = "confidence"
	GroupByCountryCode  GroupColumn = "country_code"
)

var countByColumn = map[GroupColumn]string{
	GroupByAge:          `SELECT age, COUNT(*) FROM survey_responses GROUP BY age ORDER BY age`,
	GroupByLocation:     `SELECT location, COUNT(*) FROM survey_responses GROUP BY location ORDER BY location`,
	GroupByOccupation:   `SELECT occupation, COUNT(*) FROM survey_responses GROUP BY occupation ORDER BY occupation`,
	GroupByWillVote:     `SELECT will_vote, COUNT(*) FROM survey_responses GROUP BY will_vote ORDER BY will_vote`,
	GroupByWinningParty: `SELECT winning_party, COUNT(*) FROM survey_responses GROUP BY winning_party ORDER BY winning_party`,
	GroupByConfidence:   `SELECT confidence, COUNT(*) FROM survey_responses GROUP BY confidence ORDER BY confidence`,
	GroupByCountryCode:  `SELECT country_code, COUNT(*) FROM survey_responses WHERE country_code != '' GROUP BY country_code ORDER BY country_code`,
}

// CountSurveyResponsesBy returns per-value counts of a single-choice column.
func (q *Queries) CountSurveyResponsesBy(ctx context.Context, col GroupColumn) ([]GroupCount, error) {
	query, ok := countByColumn[col]
	if !ok {
		return nil, fmt.Errorf("unknown group column %q", col)
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []GroupCount{}
	for rows.Next() {
		var i GroupCount
		if err := rows.Scan(&i.Value, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSurveyUserAgents = `-- name: ListSurveyUserAgents :many
SELECT user_agent FROM survey_responses`

// ListSurveyUserAgents returns the User-Agent of every response.
func (q *Queries) ListSurveyUserAgents(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listSurveyUserAgents)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []string{}
	for rows.Next() {
		var ua string
		if err := rows.Scan(&ua); err != nil {
			return nil, err
		}
		items = append(items, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
