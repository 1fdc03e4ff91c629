// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain models and constants for the survey service.
package model

import "time"

// Age is the respondent's age bracket.
type Age string

// Age brackets.
const (
	Age18To30 Age = "18-30"
	Age31To45 Age = "31-45"
	Age46To60 Age = "46-60"
	Age60Plus Age = "60+"
)

// Ages returns all age brackets in display order.
func Ages() []Age {
	return []Age{Age18To30, Age31To45, Age46To60, Age60Plus}
}

// Valid reports whether a is a known age bracket.
func (a Age) Valid() bool {
	switch a {
	case Age18To30, Age31To45, Age46To60, Age60Plus:
		return true
	}
	return false
}

// Location is the respondent's place of residence.
type Location string

// Locations.
const (
	LocationUrban Location = "urban"
	LocationRural Location = "rural"
)

// Locations returns all locations in display order.
func Locations() []Location {
	return []Location{LocationUrban, LocationRural}
}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	switch l {
	case LocationUrban, LocationRural:
		return true
	}
	return false
}

// Occupation is the respondent's occupation.
type Occupation string

// Occupations.
const (
	OccupationStudent    Occupation = "student"
	OccupationFarmer     Occupation = "farmer"
	OccupationBusiness   Occupation = "business"
	OccupationGovernment Occupation = "government"
	OccupationOther      Occupation = "other"
)

// Valid reports whether o is a known occupation.
func (o Occupation) Valid() bool {
	switch o {
	case OccupationStudent, OccupationFarmer, OccupationBusiness, OccupationGovernment, OccupationOther:
		return true
	}
	return false
}

// VoteIntent answers whether the respondent plans to vote.
type VoteIntent string

// Vote intents.
const (
	VoteYes       VoteIntent = "yes"
	VoteNo        VoteIntent = "no"
	VoteUndecided VoteIntent = "undecided"
)

// VoteIntents returns all vote intents in display order.
func VoteIntents() []VoteIntent {
	return []VoteIntent{VoteYes, VoteNo, VoteUndecided}
}

// Valid reports whether v is a known vote intent.
func (v VoteIntent) Valid() bool {
	switch v {
	case VoteYes, VoteNo, VoteUndecided:
		return true
	}
	return false
}

// VotingFactor is a consideration that drives the respondent's vote.
type VotingFactor string

// Voting factors.
const (
	FactorPolicies       VotingFactor = "policies"
	FactorPersonality    VotingFactor = "personality"
	FactorRepresentation VotingFactor = "representation"
	FactorCommunity      VotingFactor = "community"
)

// Valid reports whether f is a known voting factor.
func (f VotingFactor) Valid() bool {
	switch f {
	case FactorPolicies, FactorPersonality, FactorRepresentation, FactorCommunity:
		return true
	}
	return false
}

// Party is the party group the respondent expects to win.
type Party string

// Party groups.
const (
	PartyMilitaryBacked Party = "military-backed"
	PartyEthnic         Party = "ethnic"
	PartyReform         Party = "reform"
	PartyUnpredictable  Party = "unpredictable"
)

// Parties returns all party groups in display order.
func Parties() []Party {
	return []Party{PartyMilitaryBacked, PartyEthnic, PartyReform, PartyUnpredictable}
}

// Valid reports whether p is a known party group.
func (p Party) Valid() bool {
	switch p {
	case PartyMilitaryBacked, PartyEthnic, PartyReform, PartyUnpredictable:
		return true
	}
	return false
}

// CompetitionLevel is how competitive the respondent expects the election to be.
type CompetitionLevel string

// Competition levels.
const (
	CompetitionVery     CompetitionLevel = "very-competitive"
	CompetitionSomewhat CompetitionLevel = "somewhat-competitive"
	CompetitionLow      CompetitionLevel = "low-competition"
	CompetitionOther    CompetitionLevel = "other-comp"
)

// Valid reports whether c is a known competition level.
func (c CompetitionLevel) Valid() bool {
	switch c {
	case CompetitionVery, CompetitionSomewhat, CompetitionLow, CompetitionOther:
		return true
	}
	return false
}

// Interest is a topic the respondent cares about.
type Interest string

// Interests.
const (
	InterestUnityPeace      Interest = "unity-peace"
	InterestEconomy         Interest = "economy"
	InterestDemocracy       Interest = "democracy"
	InterestReligionCulture Interest = "religion-culture"
	InterestAntiCorruption  Interest = "anti-corruption"
)

// Valid reports whether i is a known interest.
func (i Interest) Valid() bool {
	switch i {
	case InterestUnityPeace, InterestEconomy, InterestDemocracy, InterestReligionCulture, InterestAntiCorruption:
		return true
	}
	return false
}

// Expectation is what the respondent hopes follows the election.
type Expectation string

// Expectations.
const (
	ExpectPeaceUnity        Expectation = "peace-unity"
	ExpectEconomicReform    Expectation = "economic-reform"
	ExpectInternationalCoop Expectation = "international-cooperation"
	ExpectMaintainStability Expectation = "maintain-stability"
	ExpectOther             Expectation = "other-expect"
)

// Valid reports whether e is a known expectation.
func (e Expectation) Valid() bool {
	switch e {
	case ExpectPeaceUnity, ExpectEconomicReform, ExpectInternationalCoop, ExpectMaintainStability, ExpectOther:
		return true
	}
	return false
}

// Concern is a post-election risk the respondent worries about.
type Concern string

// Concerns.
const (
	ConcernViolence        Concern = "violence"
	ConcernEconomicDecline Concern = "economic-decline"
	ConcernSanctions       Concern = "sanctions"
	ConcernEthnicRights    Concern = "ethnic-rights"
	ConcernOther           Concern = "other"
)

// Valid reports whether c is a known concern.
func (c Concern) Valid() bool {
	switch c {
	case ConcernViolence, ConcernEconomicDecline, ConcernSanctions, ConcernEthnicRights, ConcernOther:
		return true
	}
	return false
}

// Confidence is how confident the respondent is in the outcome.
type Confidence string

// Confidence levels.
const (
	ConfidenceVery     Confidence = "very-confident"
	ConfidenceSomewhat Confidence = "somewhat-confident"
	ConfidenceNotVery  Confidence = "not-very-confident"
	ConfidenceNone     Confidence = "not-confident"
)

// Confidences returns all confidence levels in display order.
func Confidences() []Confidence {
	return []Confidence{ConfidenceVery, ConfidenceSomewhat, ConfidenceNotVery, ConfidenceNone}
}

// Valid reports whether c is a known confidence level.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceVery, ConfidenceSomewhat, ConfidenceNotVery, ConfidenceNone:
		return true
	}
	return false
}

// Draft is a survey submission that may still be incomplete.
// The zero value is the empty draft.
type Draft struct {
	Age                Age              `json:"age"`
	Location           Location         `json:"location"`
	CityName           string           `json:"cityName"`
	Occupation         Occupation       `json:"occupation"`
	OccupationOther    string           `json:"occupationOther"`
	WillVote           VoteIntent       `json:"willVote"`
	VotingFactors      []VotingFactor   `json:"votingFactors"`
	WinningParty       Party            `json:"winningParty"`
	CompetitionLevel   CompetitionLevel `json:"competitionLevel"`
	CompetitionOther   string           `json:"competitionOther"`
	Interests          []Interest       `json:"interests"`
	Expectations       Expectation      `json:"expectations"`
	ExpectationsOther  string           `json:"expectationsOther"`
	Concerns           []Concern        `json:"concerns"`
	ConcernsOther      string           `json:"concernsOther"`
	Confidence         Confidence       `json:"confidence"`
	AdditionalComments string           `json:"additionalComments"`
}

// Clone returns a deep copy of d so the copy's sets can be changed independently.
func (d Draft) Clone() Draft {
	c := d
	c.VotingFactors = cloneSlice(d.VotingFactors)
	c.Interests = cloneSlice(d.Interests)
	c.Concerns = cloneSlice(d.Concerns)
	return c
}

// HasConcern reports whether c is among the selected concerns.
func (d Draft) HasConcern(c Concern) bool {
	for _, v := range d.Concerns {
		if v == c {
			return true
		}
	}
	return false
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// SurveyResponse is a persisted submission. It is never modified after creation.
type SurveyResponse struct {
	ID string `json:"id"`
	Draft
	IPAddress   string    `json:"ipAddress"`
	UserAgent   string    `json:"userAgent"`
	CountryCode string    `json:"countryCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
