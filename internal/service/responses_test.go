// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/survey"
	"github.com/olegiv/opinion-survey/internal/testutil"
)

type fixedCountry string

func (f fixedCountry) Country(string) string { return string(f) }

func TestResponseService_CreateAssignsDistinctIDs(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, nil)
	ctx := context.Background()

	sub := Submission{Draft: testutil.CompleteDraft(), IPAddress: "203.0.113.9", UserAgent: "Mozilla/5.0"}

	first, err := svc.Create(ctx, sub)
	require.NoError(t, err)
	second, err := svc.Create(ctx, sub)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "203.0.113.9", first.IPAddress)
	assert.Equal(t, "Mozilla/5.0", first.UserAgent)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestResponseService_CreateNormalizesDraft(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, fixedCountry("MM"))

	d := testutil.CompleteDraft()
	d.Location = model.LocationRural
	d.CityName = "should be dropped"
	d.Interests = []model.Interest{model.InterestEconomy, model.InterestEconomy}

	resp, err := svc.Create(context.Background(), Submission{Draft: d, IPAddress: "8.8.8.8"})
	require.NoError(t, err)

	assert.Empty(t, resp.CityName)
	assert.Equal(t, []model.Interest{model.InterestEconomy}, resp.Interests)
	assert.Equal(t, "MM", resp.CountryCode)
}

func TestResponseService_CreateRejectsDraftBlankAfterCleaning(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, nil)
	ctx := context.Background()

	d := testutil.CompleteDraft()
	d.CityName = "<script>alert(1)</script>"
	d.Occupation = model.OccupationOther
	d.OccupationOther = "<b></b>"

	_, err := svc.Create(ctx, Submission{Draft: d})
	var verrs survey.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(survey.FieldCityName))
	assert.True(t, verrs.Has(survey.FieldOccupationOther))

	stored, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestResponseService_RecentAndBetween(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, nil)
	ctx := context.Background()

	clock := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	var ids []string
	for i := 0; i < 3; i++ {
		resp, err := svc.Create(ctx, Submission{Draft: testutil.CompleteDraft()})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
		clock = clock.Add(24 * time.Hour)
	}

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[2], recent[0].ID)

	from := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	between, err := svc.Between(ctx, &from, nil)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, ids[2], between[0].ID)
	assert.Equal(t, ids[1], between[1].ID)

	all, err := svc.Between(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestResponseService_BetweenNewestFirstWithTies(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, nil)
	ctx := context.Background()

	same := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return same }

	var ids []string
	for i := 0; i < 3; i++ {
		resp, err := svc.Create(ctx, Submission{Draft: testutil.CompleteDraft()})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	rows, err := svc.Between(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{rows[0].ID, rows[1].ID, rows[2].ID},
		"equal timestamps export in reverse insertion order")
}

func TestResponseService_CreatorFeedsWizard(t *testing.T) {
	db := testutil.MemoryDB(t)
	svc := NewResponseService(db, nil)
	ctx := context.Background()

	w := survey.Wizard{Step: survey.StepReview, Draft: testutil.CompleteDraft()}
	w, err := w.Advance(ctx, svc.Creator("198.51.100.1", "curl/8"))
	require.NoError(t, err)
	require.True(t, w.Complete)

	recent, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, w.ResponseID, recent[0].ID)
	assert.Equal(t, "198.51.100.1", recent[0].IPAddress)
	assert.Equal(t, "Yangon", recent[0].CityName)
}
