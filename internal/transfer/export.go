// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer renders stored survey responses for administrators:
// CSV and JSON exports and aggregate statistics.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olegiv/opinion-survey/internal/model"
)

// Format is an export file format.
type Format string

// Export formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FilenamePrefix starts every export file name.
const FilenamePrefix = "myanmar-survey"

// timestampLayout renders createdAt like a JavaScript ISO string.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseFormat parses a format query value. An empty value means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the dated attachment name for an export made at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", FilenamePrefix, t.UTC().Format(time.DateOnly), f)
}

// CSVHeader is the fixed column list of the CSV export.
var CSVHeader = []string{
	"ID", "Age", "Location", "City Name", "Occupation", "Occupation Other",
	"Will Vote", "Voting Factors", "Winning Party", "Competition Level",
	"Competition Other", "Interests", "Expectations", "Expectations Other",
	"Concerns", "Concerns Other", "Confidence", "Additional Comments",
	"IP Address", "Created At",
}

// quoteCSVRow quotes every value and doubles embedded quotes.
func quoteCSVRow(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// setText renders a set as JSON array text.
func setText[T ~string](vals []T) string {
	if vals == nil {
		vals = []T{}
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func csvRecord(r model.SurveyResponse) []string {
	return []string{
		r.ID,
		string(r.Age),
		string(r.Location),
		r.CityName,
		string(r.Occupation),
		r.OccupationOther,
		string(r.WillVote),
		setText(r.VotingFactors),
		string(r.WinningParty),
		string(r.CompetitionLevel),
		r.CompetitionOther,
		setText(r.Interests),
		string(r.Expectations),
		r.ExpectationsOther,
		setText(r.Concerns),
		r.ConcernsOther,
		string(r.Confidence),
		r.AdditionalComments,
		r.IPAddress,
		r.CreatedAt.UTC().Format(timestampLayout),
	}
}

// WriteCSV writes the header and one row per response. Rows are separated
// by a single newline with none after the last row.
func WriteCSV(w io.Writer, responses []model.SurveyResponse) error {
	lines := make([]string, 0, len(responses)+1)
	lines = append(lines, quoteCSVRow(CSVHeader))
	for _, r := range responses {
		lines = append(lines, quoteCSVRow(csvRecord(r)))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// JSONExport is the envelope of the JSON export.
type JSONExport struct {
	Responses  []model.SurveyResponse `json:"responses"`
	Total      int                    `json:"total"`
	ExportDate time.Time              `json:"exportDate"`
}

// WriteJSON writes the JSON export envelope.
func WriteJSON(w io.Writer, responses []model.SurveyResponse, exportDate time.Time) error {
	if responses == nil {
		responses = []model.SurveyResponse{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(JSONExport{
		Responses:  responses,
		Total:      len(responses),
		ExportDate: exportDate.UTC(),
	}); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

// Write renders responses in format f.
func Write(w io.Writer, f Format, responses []model.SurveyResponse, exportDate time.Time) error {
	if f == FormatJSON {
		return WriteJSON(w, responses, exportDate)
	}
	return WriteCSV(w, responses)
}

// ParseBound parses an export date bound. Empty yields nil. A date-only end
// bound covers the whole day.
func ParseBound(s string, end bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		if end {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	t = t.UTC()
	return &t, nil
}
