// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// strictPolicy strips every HTML element from respondent text.
var strictPolicy = bluemonday.StrictPolicy()

// NormalizeText converts s to NFC and trims surrounding whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// IsBlank reports whether s holds no text once cleaned. Markup alone is
// blank.
func IsBlank(s string) bool {
	return CleanText(s) == ""
}

// CleanText normalizes s and removes any markup from it.
// Entities produced by the sanitizer are decoded so stored text stays plain.
func CleanText(s string) string {
	s = NormalizeText(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
