// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package survey implements per-step validation of survey drafts and the
// multi-step submission wizard.
package survey

import (
	"slices"
	"strings"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/util"
)

// Wizard steps. Steps 0..3 collect answers, StepReview shows the summary and
// StepDone is reached after a successful submission.
const (
	StepDemographics = 0
	StepVoting       = 1
	StepOutlook      = 2
	StepExpectations = 3
	StepReview       = 4
	StepDone         = 5
)

// Field names as they appear in the JSON draft.
const (
	FieldAge                = "age"
	FieldLocation           = "location"
	FieldCityName           = "cityName"
	FieldOccupation         = "occupation"
	FieldOccupationOther    = "occupationOther"
	FieldWillVote           = "willVote"
	FieldVotingFactors      = "votingFactors"
	FieldWinningParty       = "winningParty"
	FieldCompetitionLevel   = "competitionLevel"
	FieldCompetitionOther   = "competitionOther"
	FieldInterests          = "interests"
	FieldExpectations       = "expectations"
	FieldExpectationsOther  = "expectationsOther"
	FieldConcerns           = "concerns"
	FieldConcernsOther      = "concernsOther"
	FieldConfidence         = "confidence"
	FieldAdditionalComments = "additionalComments"
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the ordered list of failures for a draft.
// An empty list means the draft passed.
type ValidationErrors []FieldError

// Error joins all messages.
func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Messages returns the human-readable texts in order.
func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Message)
	}
	return out
}

// Has reports whether field has a failure.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

// rule checks one field of a draft.
type rule func(d model.Draft) (FieldError, bool)

func invalidChoice(field string) FieldError {
	return FieldError{Field: field, Message: field + model.MsgInvalidChoiceSuffix}
}

// enumRule requires a single-choice answer that is a member of its enum.
func enumRule[T ~string](field, msg string, get func(model.Draft) T, valid func(T) bool) rule {
	return func(d model.Draft) (FieldError, bool) {
		v := get(d)
		if v == "" {
			return FieldError{Field: field, Message: msg}, true
		}
		if !valid(v) {
			return invalidChoice(field), true
		}
		return FieldError{}, false
	}
}

// setRule checks a multi-choice answer. required decides whether an empty
// set is a failure; members outside the enum always are.
func setRule[T ~string](field, msg string, get func(model.Draft) []T, valid func(T) bool, required func(model.Draft) bool) rule {
	return func(d model.Draft) (FieldError, bool) {
		vals := get(d)
		if len(vals) == 0 {
			if required(d) {
				return FieldError{Field: field, Message: msg}, true
			}
			return FieldError{}, false
		}
		for _, v := range vals {
			if !valid(v) {
				return invalidChoice(field), true
			}
		}
		return FieldError{}, false
	}
}

// otherRule pairs a trigger selection with the free-text field it makes
// mandatory.
type otherRule struct {
	field   string
	message string
	trigger func(model.Draft) bool
	text    func(model.Draft) string
}

func (o otherRule) check(d model.Draft) (FieldError, bool) {
	if o.trigger(d) && util.IsBlank(o.text(d)) {
		return FieldError{Field: o.field, Message: o.message}, true
	}
	return FieldError{}, false
}

var (
	cityRule = otherRule{
		field:   FieldCityName,
		message: model.MsgCityNameRequired,
		trigger: func(d model.Draft) bool { return d.Location == model.LocationUrban },
		text:    func(d model.Draft) string { return d.CityName },
	}
	occupationOtherRule = otherRule{
		field:   FieldOccupationOther,
		message: model.MsgOccupationOtherRequired,
		trigger: func(d model.Draft) bool { return d.Occupation == model.OccupationOther },
		text:    func(d model.Draft) string { return d.OccupationOther },
	}
	competitionOtherRule = otherRule{
		field:   FieldCompetitionOther,
		message: model.MsgCompetitionOtherRequired,
		trigger: func(d model.Draft) bool { return d.CompetitionLevel == model.CompetitionOther },
		text:    func(d model.Draft) string { return d.CompetitionOther },
	}
	expectationsOtherRule = otherRule{
		field:   FieldExpectationsOther,
		message: model.MsgExpectationsOtherRequired,
		trigger: func(d model.Draft) bool { return d.Expectations == model.ExpectOther },
		text:    func(d model.Draft) string { return d.ExpectationsOther },
	}
	concernsOtherRule = otherRule{
		field:   FieldConcernsOther,
		message: model.MsgConcernsOtherRequired,
		trigger: func(d model.Draft) bool { return d.HasConcern(model.ConcernOther) },
		text:    func(d model.Draft) string { return d.ConcernsOther },
	}

	// otherRules lists every conditional free-text field.
	otherRules = []otherRule{cityRule, occupationOtherRule, competitionOtherRule, expectationsOtherRule, concernsOtherRule}
)

func always(model.Draft) bool { return true }

// stepRules holds the checks of each input step in field order.
var stepRules = [][]rule{
	StepDemographics: {
		enumRule(FieldAge, model.MsgAgeRequired, func(d model.Draft) model.Age { return d.Age }, model.Age.Valid),
		enumRule(FieldLocation, model.MsgLocationRequired, func(d model.Draft) model.Location { return d.Location }, model.Location.Valid),
		cityRule.check,
		enumRule(FieldOccupation, model.MsgOccupationRequired, func(d model.Draft) model.Occupation { return d.Occupation }, model.Occupation.Valid),
		occupationOtherRule.check,
	},
	StepVoting: {
		enumRule(FieldWillVote, model.MsgWillVoteRequired, func(d model.Draft) model.VoteIntent { return d.WillVote }, model.VoteIntent.Valid),
		setRule(FieldVotingFactors, model.MsgVotingFactorsRequired,
			func(d model.Draft) []model.VotingFactor { return d.VotingFactors },
			model.VotingFactor.Valid,
			func(d model.Draft) bool { return d.WillVote != model.VoteNo }),
	},
	StepOutlook: {
		enumRule(FieldWinningParty, model.MsgWinningPartyRequired, func(d model.Draft) model.Party { return d.WinningParty }, model.Party.Valid),
		enumRule(FieldCompetitionLevel, model.MsgCompetitionLevelRequired, func(d model.Draft) model.CompetitionLevel { return d.CompetitionLevel }, model.CompetitionLevel.Valid),
		competitionOtherRule.check,
		setRule(FieldInterests, model.MsgInterestsRequired,
			func(d model.Draft) []model.Interest { return d.Interests },
			model.Interest.Valid, always),
	},
	StepExpectations: {
		enumRule(FieldExpectations, model.MsgExpectationsRequired, func(d model.Draft) model.Expectation { return d.Expectations }, model.Expectation.Valid),
		expectationsOtherRule.check,
		setRule(FieldConcerns, model.MsgConcernsRequired,
			func(d model.Draft) []model.Concern { return d.Concerns },
			model.Concern.Valid, always),
		concernsOtherRule.check,
		enumRule(FieldConfidence, model.MsgConfidenceRequired, func(d model.Draft) model.Confidence { return d.Confidence }, model.Confidence.Valid),
	},
}

// ValidateStep returns every failure of the given step. The review step and
// steps outside the form never fail.
func ValidateStep(step int, d model.Draft) ValidationErrors {
	if step < 0 || step >= len(stepRules) {
		return nil
	}
	var errs ValidationErrors
	for _, check := range stepRules[step] {
		if fe, failed := check(d); failed {
			errs = append(errs, fe)
		}
	}
	return errs
}

// ValidateAll runs every input step and concatenates the failures.
func ValidateAll(d model.Draft) ValidationErrors {
	var errs ValidationErrors
	for step := range stepRules {
		errs = append(errs, ValidateStep(step, d)...)
	}
	return errs
}

// Normalize returns a copy of d ready to persist: free text is cleaned,
// sets are deduplicated and "Other" texts whose trigger is not selected are
// dropped.
func Normalize(d model.Draft) model.Draft {
	n := d.Clone()
	n.CityName = util.CleanText(n.CityName)
	n.OccupationOther = util.CleanText(n.OccupationOther)
	n.CompetitionOther = util.CleanText(n.CompetitionOther)
	n.ExpectationsOther = util.CleanText(n.ExpectationsOther)
	n.ConcernsOther = util.CleanText(n.ConcernsOther)
	n.AdditionalComments = util.CleanText(n.AdditionalComments)

	n.VotingFactors = dedupe(n.VotingFactors)
	n.Interests = dedupe(n.Interests)
	n.Concerns = dedupe(n.Concerns)

	for _, o := range otherRules {
		if !o.trigger(n) {
			clearOther(&n, o.field)
		}
	}
	return n
}

func clearOther(d *model.Draft, field string) {
	switch field {
	case FieldCityName:
		d.CityName = ""
	case FieldOccupationOther:
		d.OccupationOther = ""
	case FieldCompetitionOther:
		d.CompetitionOther = ""
	case FieldExpectationsOther:
		d.ExpectationsOther = ""
	case FieldConcernsOther:
		d.ConcernsOther = ""
	}
}

// dedupe removes repeated members keeping the first occurrence.
func dedupe[T comparable](s []T) []T {
	if len(s) == 0 {
		return s
	}
	out := make([]T, 0, len(s))
	for _, v := range s {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
