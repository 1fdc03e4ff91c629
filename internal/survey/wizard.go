// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package survey

import (
	"context"
	"fmt"

	"github.com/olegiv/opinion-survey/internal/model"
)

// Creator persists a completed draft and returns the new record's id.
type Creator interface {
	Create(ctx context.Context, d model.Draft) (string, error)
}

// CreatorFunc adapts a function to the Creator interface.
type CreatorFunc func(ctx context.Context, d model.Draft) (string, error)

// Create calls f(ctx, d).
func (f CreatorFunc) Create(ctx context.Context, d model.Draft) (string, error) {
	return f(ctx, d)
}

// Wizard is the state of one respondent's pass through the form.
// Transitions never modify the receiver; they return the next state.
type Wizard struct {
	Step        int              `json:"step"`
	Draft       model.Draft      `json:"draft"`
	Errors      ValidationErrors `json:"errors,omitempty"`
	Complete    bool             `json:"complete"`
	ResponseID  string           `json:"responseId,omitempty"`
	SubmitError string           `json:"submitError,omitempty"`
}

// New returns a wizard at the first step with an empty draft.
func New() Wizard {
	return Wizard{}
}

func (w Wizard) next() Wizard {
	n := w
	n.Draft = w.Draft.Clone()
	n.Errors = nil
	n.SubmitError = ""
	return n
}

// Advance validates the current step and moves forward. On the review step
// it submits the draft through c. A failed submission keeps the wizard on the
// review step and returns the creator's error alongside the new state.
func (w Wizard) Advance(ctx context.Context, c Creator) (Wizard, error) {
	if w.Complete || w.Step >= StepDone {
		return w, nil
	}

	n := w.next()

	if w.Step < StepReview {
		if errs := ValidateStep(w.Step, w.Draft); len(errs) > 0 {
			n.Errors = errs
			return n, nil
		}
		n.Step++
		return n, nil
	}

	if errs := ValidateAll(w.Draft); len(errs) > 0 {
		n.Errors = errs
		return n, nil
	}

	id, err := c.Create(ctx, Normalize(w.Draft))
	if err != nil {
		n.SubmitError = model.MsgSubmitFailed
		return n, fmt.Errorf("submitting survey: %w", err)
	}

	n.Step = StepDone
	n.Complete = true
	n.ResponseID = id
	return n, nil
}

// Retreat moves one step back. It has no effect on the first step or once
// the survey is submitted.
func (w Wizard) Retreat() Wizard {
	if w.Complete || w.Step <= StepDemographics {
		return w
	}
	n := w.next()
	n.Step--
	return n
}

// Reset returns a fresh wizard.
func (w Wizard) Reset() Wizard {
	return New()
}

// Update replaces the draft and clears shown errors. It has no effect once
// the survey is submitted.
func (w Wizard) Update(d model.Draft) Wizard {
	if w.Complete {
		return w
	}
	n := w.next()
	n.Draft = d.Clone()
	return n
}

// Valid reports whether the current step would pass validation.
func (w Wizard) Valid() bool {
	if w.Complete {
		return true
	}
	return len(ValidateStep(w.Step, w.Draft)) == 0
}
