// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/opinion-survey/internal/model"
)

// completeDraft returns a draft that passes every step.
func completeDraft() model.Draft {
	return model.Draft{
		Age:              model.Age31To45,
		Location:         model.LocationUrban,
		CityName:         "Yangon",
		Occupation:       model.OccupationStudent,
		WillVote:         model.VoteYes,
		VotingFactors:    []model.VotingFactor{model.FactorPolicies},
		WinningParty:     model.PartyReform,
		CompetitionLevel: model.CompetitionVery,
		Interests:        []model.Interest{model.InterestEconomy},
		Expectations:     model.ExpectPeaceUnity,
		Concerns:         []model.Concern{model.ConcernViolence},
		Confidence:       model.ConfidenceSomewhat,
	}
}

func fields(errs ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateStep_CompleteDraftPasses(t *testing.T) {
	d := completeDraft()
	for step := StepDemographics; step <= StepDone; step++ {
		assert.Empty(t, ValidateStep(step, d), "step %d", step)
	}
	assert.Empty(t, ValidateAll(d))
}

func TestValidateStep_EmptyDraft(t *testing.T) {
	var d model.Draft

	tests := []struct {
		step int
		want []string
	}{
		{StepDemographics, []string{FieldAge, FieldLocation, FieldOccupation}},
		{StepVoting, []string{FieldWillVote, FieldVotingFactors}},
		{StepOutlook, []string{FieldWinningParty, FieldCompetitionLevel, FieldInterests}},
		{StepExpectations, []string{FieldExpectations, FieldConcerns, FieldConfidence}},
		{StepReview, []string{}},
	}

	for _, tt := range tests {
		got := ValidateStep(tt.step, d)
		assert.Equal(t, tt.want, fields(got), "step %d", tt.step)
	}
}

func TestValidateStep_OutOfRange(t *testing.T) {
	var d model.Draft
	assert.Empty(t, ValidateStep(-1, d))
	assert.Empty(t, ValidateStep(StepDone, d))
	assert.Empty(t, ValidateStep(42, d))
}

func TestValidateStep_UrbanBlankCity(t *testing.T) {
	d := completeDraft()
	d.CityName = "   "

	errs := ValidateStep(StepDemographics, d)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldCityName, errs[0].Field)
	assert.Equal(t, model.MsgCityNameRequired, errs[0].Message)
}

func TestValidateStep_MarkupOnlyTextIsBlank(t *testing.T) {
	d := completeDraft()
	d.CityName = "<script>alert(1)</script>"
	d.Occupation = model.OccupationOther
	d.OccupationOther = "<b></b>"

	errs := ValidateStep(StepDemographics, d)
	assert.Equal(t, []string{FieldCityName, FieldOccupationOther}, fields(errs))

	// What Normalize keeps must still fail the same rules.
	assert.Equal(t, []string{FieldCityName, FieldOccupationOther}, fields(ValidateAll(Normalize(d))))
}

func TestValidateStep_RuralNeedsNoCity(t *testing.T) {
	d := completeDraft()
	d.Location = model.LocationRural
	d.CityName = ""
	assert.Empty(t, ValidateStep(StepDemographics, d))
}

func TestValidateStep_OtherRules(t *testing.T) {
	tests := []struct {
		name  string
		step  int
		mut   func(d *model.Draft)
		field string
	}{
		{"occupation other", StepDemographics, func(d *model.Draft) {
			d.Occupation = model.OccupationOther
		}, FieldOccupationOther},
		{"competition other", StepOutlook, func(d *model.Draft) {
			d.CompetitionLevel = model.CompetitionOther
			d.CompetitionOther = "\t"
		}, FieldCompetitionOther},
		{"expectations other", StepExpectations, func(d *model.Draft) {
			d.Expectations = model.ExpectOther
		}, FieldExpectationsOther},
		{"concerns other", StepExpectations, func(d *model.Draft) {
			d.Concerns = []model.Concern{model.ConcernSanctions, model.ConcernOther}
		}, FieldConcernsOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			tt.mut(&d)

			errs := ValidateStep(tt.step, d)
			assert.Equal(t, []string{tt.field}, fields(errs))
		})
	}
}

func TestValidateStep_OtherTextSatisfiesRule(t *testing.T) {
	d := completeDraft()
	d.Occupation = model.OccupationOther
	d.OccupationOther = "ကျောင်းဆရာ"
	d.Expectations = model.ExpectOther
	d.ExpectationsOther = "ပညာရေး"
	d.Concerns = []model.Concern{model.ConcernOther}
	d.ConcernsOther = "ရေကြီးမှု"
	d.CompetitionLevel = model.CompetitionOther
	d.CompetitionOther = "unknown"

	assert.Empty(t, ValidateAll(d))
}

func TestValidateStep_VotingFactors(t *testing.T) {
	tests := []struct {
		name     string
		willVote model.VoteIntent
		factors  []model.VotingFactor
		want     []string
	}{
		{"no vote needs no factors", model.VoteNo, nil, []string{}},
		{"yes needs factors", model.VoteYes, nil, []string{FieldVotingFactors}},
		{"undecided needs factors", model.VoteUndecided, nil, []string{FieldVotingFactors}},
		{"empty intent needs factors", "", nil, []string{FieldWillVote, FieldVotingFactors}},
		{"yes with factors", model.VoteYes, []model.VotingFactor{model.FactorCommunity}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			d.WillVote = tt.willVote
			d.VotingFactors = tt.factors
			assert.Equal(t, tt.want, fields(ValidateStep(StepVoting, d)))
		})
	}
}

func TestValidateStep_InvalidEnumValues(t *testing.T) {
	d := completeDraft()
	d.Age = "17"
	d.Interests = []model.Interest{model.InterestEconomy, "football"}

	errs := ValidateStep(StepDemographics, d)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldAge, errs[0].Field)
	assert.Equal(t, FieldAge+model.MsgInvalidChoiceSuffix, errs[0].Message)

	errs = ValidateStep(StepOutlook, d)
	assert.Equal(t, []string{FieldInterests}, fields(errs))
}

func TestValidateAll_ConcatenatesSteps(t *testing.T) {
	d := completeDraft()
	d.Age = ""
	d.Confidence = ""

	errs := ValidateAll(d)
	assert.Equal(t, []string{FieldAge, FieldConfidence}, fields(errs))
	assert.Equal(t, []string{model.MsgAgeRequired, model.MsgConfidenceRequired}, errs.Messages())
	assert.True(t, errs.Has(FieldConfidence))
	assert.False(t, errs.Has(FieldCityName))
	assert.Contains(t, errs.Error(), model.MsgAgeRequired)
}

func TestNormalize(t *testing.T) {
	d := completeDraft()
	d.Location = model.LocationRural
	d.CityName = "Yangon"
	d.OccupationOther = "leftover"
	d.Concerns = []model.Concern{model.ConcernViolence, model.ConcernViolence, model.ConcernSanctions}
	d.ConcernsOther = "unused"
	d.Interests = []model.Interest{model.InterestEconomy, model.InterestEconomy}
	d.AdditionalComments = "  <b>ငြိမ်းချမ်းရေး</b>  "

	n := Normalize(d)

	assert.Empty(t, n.CityName)
	assert.Empty(t, n.OccupationOther)
	assert.Empty(t, n.ConcernsOther)
	assert.Equal(t, []model.Concern{model.ConcernViolence, model.ConcernSanctions}, n.Concerns)
	assert.Equal(t, []model.Interest{model.InterestEconomy}, n.Interests)
	assert.Equal(t, "ငြိမ်းချမ်းရေး", n.AdditionalComments)

	// input untouched
	assert.Equal(t, "Yangon", d.CityName)
	assert.Len(t, d.Concerns, 3)
}

func TestNormalize_KeepsTriggeredOtherText(t *testing.T) {
	d := completeDraft()
	d.CityName = "  Yangon "
	d.Concerns = []model.Concern{model.ConcernOther}
	d.ConcernsOther = "floods"

	n := Normalize(d)
	assert.Equal(t, "Yangon", n.CityName)
	assert.Equal(t, "floods", n.ConcernsOther)
}
