// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

// StatsService computes dashboard statistics.
type StatsService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewStatsService creates a StatsService.
func NewStatsService(db store.DBTX) *StatsService {
	return &StatsService{queries: store.New(db), now: time.Now}
}

// Compute returns period totals and grouped counts over all responses.
func (s *StatsService) Compute(ctx context.Context) (transfer.Stats, error) {
	var st transfer.Stats
	var err error

	if st.Total, err = s.queries.CountSurveyResponses(ctx); err != nil {
		return st, fmt.Errorf("counting responses: %w", err)
	}

	p := transfer.PeriodsAt(s.now())
	for _, c := range []struct {
		since time.Time
		dst   *int64
	}{
		{p.Today, &st.Today},
		{p.Week, &st.ThisWeek},
		{p.Month, &st.ThisMonth},
	} {
		if *c.dst, err = s.queries.CountSurveyResponsesSince(ctx, c.since); err != nil {
			return st, fmt.Errorf("counting responses since %s: %w", c.since.Format(time.DateOnly), err)
		}
	}

	groups := []struct {
		col   store.GroupColumn
		order func(map[string]int64) []transfer.Bucket
		dst   *[]transfer.Bucket
	}{
		{store.GroupByAge, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered(model.Ages(), m) }, &st.ByAge},
		{store.GroupByLocation, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered(model.Locations(), m) }, &st.ByLocation},
		{store.GroupByOccupation, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered([]model.Occupation{}, m) }, &st.ByOccupation},
		{store.GroupByWillVote, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered(model.VoteIntents(), m) }, &st.ByWillVote},
		{store.GroupByWinningParty, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered(model.Parties(), m) }, &st.ByWinningParty},
		{store.GroupByConfidence, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered(model.Confidences(), m) }, &st.ByConfidence},
		{store.GroupByCountryCode, func(m map[string]int64) []transfer.Bucket { return transfer.Ordered([]string{}, m) }, &st.ByCountry},
	}
	for _, g := range groups {
		rows, err := s.queries.CountSurveyResponsesBy(ctx, g.col)
		if err != nil {
			return st, fmt.Errorf("grouping by %s: %w", g.col, err)
		}
		counts := make(map[string]int64, len(rows))
		for _, r := range rows {
			counts[r.Value] = r.Count
		}
		*g.dst = g.order(counts)
	}

	agents, err := s.queries.ListSurveyUserAgents(ctx)
	if err != nil {
		return st, fmt.Errorf("listing user agents: %w", err)
	}
	st.Browsers, st.Devices = transfer.UserAgentBuckets(agents)

	return st, nil
}
