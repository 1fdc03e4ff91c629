// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
}

// SurveyResponse is a row of the survey_responses table. Set columns hold
// JSON array text.
type SurveyResponse struct {
	ID                 string         `json:"id"`
	Age                string         `json:"age"`
	Location           string         `json:"location"`
	CityName           sql.NullString `json:"city_name"`
	Occupation         string         `json:"occupation"`
	OccupationOther    sql.NullString `json:"occupation_other"`
	WillVote           string         `json:"will_vote"`
	VotingFactors      string         `json:"voting_factors"`
	WinningParty       string         `json:"winning_party"`
	CompetitionLevel   string         `json:"competition_level"`
	CompetitionOther   sql.NullString `json:"competition_other"`
	Interests          string         `json:"interests"`
	Expectations       string         `json:"expectations"`
	ExpectationsOther  sql.NullString `json:"expectations_other"`
	Concerns           string         `json:"concerns"`
	ConcernsOther      sql.NullString `json:"concerns_other"`
	Confidence         string         `json:"confidence"`
	AdditionalComments sql.NullString `json:"additional_comments"`
	IpAddress          string         `json:"ip_address"`
	UserAgent          string         `json:"user_agent"`
	CountryCode        string         `json:"country_code"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Event is a row of the events table.
type Event struct {
	ID         int64         `json:"id"`
	Level      string        `json:"level"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	UserID     sql.NullInt64 `json:"user_id"`
	Metadata   string        `json:"metadata"`
	IpAddress  string        `json:"ip_address"`
	RequestUrl string        `json:"request_url"`
	CreatedAt  time.Time     `json:"created_at"`
}

// GroupCount is one bucket of a GROUP BY count.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}
