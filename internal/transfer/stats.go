// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"sort"
	"time"

	"github.com/mileusna/useragent"
)

// Bucket is one value of a grouped count.
type Bucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Stats summarizes stored responses for the dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"thisWeek"`
	ThisMonth int64 `json:"thisMonth"`

	ByAge          []Bucket `json:"byAge"`
	ByLocation     []Bucket `json:"byLocation"`
	ByOccupation   []Bucket `json:"byOccupation"`
	ByWillVote     []Bucket `json:"byWillVote"`
	ByWinningParty []Bucket `json:"byWinningParty"`
	ByConfidence   []Bucket `json:"byConfidence"`
	ByCountry      []Bucket `json:"byCountry"`
	Browsers       []Bucket `json:"browsers"`
	Devices        []Bucket `json:"devices"`
}

// Periods holds the start of each dashboard counting window.
type Periods struct {
	Today time.Time
	Week  time.Time
	Month time.Time
}

// PeriodsAt returns the windows relative to now in UTC: the start of the day,
// seven days before that, and one calendar month before that.
func PeriodsAt(now time.Time) Periods {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Periods{
		Today: today,
		Week:  today.AddDate(0, 0, -7),
		Month: today.AddDate(0, -1, 0),
	}
}

// Ordered arranges counts by the given display order. Values missing from
// counts get zero; values not in order follow, sorted.
func Ordered[T ~string](order []T, counts map[string]int64) []Bucket {
	out := make([]Bucket, 0, len(order)+len(counts))
	seen := make(map[string]bool, len(order))
	for _, v := range order {
		key := string(v)
		seen[key] = true
		out = append(out, Bucket{Value: key, Count: counts[key]})
	}

	var extra []string
	for k := range counts {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, Bucket{Value: k, Count: counts[k]})
	}
	return out
}

// deviceType classifies a parsed User-Agent.
func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// UserAgentBuckets counts browser families and device types, largest first.
func UserAgentBuckets(agents []string) (browsers, devices []Bucket) {
	browserCounts := map[string]int64{}
	deviceCounts := map[string]int64{}

	for _, raw := range agents {
		ua := useragent.Parse(raw)
		name := ua.Name
		if name == "" {
			name = "Unknown"
		}
		browserCounts[name]++
		deviceCounts[deviceType(ua)]++
	}

	return byCount(browserCounts), byCount(deviceCounts)
}

func byCount(counts map[string]int64) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, Bucket{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
