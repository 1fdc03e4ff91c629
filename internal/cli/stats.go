// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

// StatsCmd returns the stats command.
func StatsCmd(open opener) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show submission counts and answer breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			st, err := service.NewStatsService(db).Compute(cmd.Context())
			if err != nil {
				return fmt.Errorf("computing stats: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			return printStats(out, st)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full statistics as JSON")
	return cmd
}

var heading = color.New(color.Bold).SprintFunc()

func printStats(out io.Writer, st transfer.Stats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, heading("SUBMISSIONS"))
	_, _ = fmt.Fprintf(tw, "  total\t%d\n", st.Total)
	_, _ = fmt.Fprintf(tw, "  today\t%d\n", st.Today)
	_, _ = fmt.Fprintf(tw, "  this week\t%d\n", st.ThisWeek)
	_, _ = fmt.Fprintf(tw, "  this month\t%d\n", st.ThisMonth)

	sections := []struct {
		title   string
		buckets []transfer.Bucket
	}{
		{"AGE", st.ByAge},
		{"LOCATION", st.ByLocation},
		{"OCCUPATION", st.ByOccupation},
		{"WILL VOTE", st.ByWillVote},
		{"WINNING PARTY", st.ByWinningParty},
		{"CONFIDENCE", st.ByConfidence},
		{"COUNTRY", st.ByCountry},
	}
	for _, s := range sections {
		if len(s.buckets) == 0 {
			continue
		}
		_, _ = fmt.Fprintln(tw, heading(s.title))
		for _, b := range s.buckets {
			_, _ = fmt.Fprintf(tw, "  %s\t%d\n", b.Value, b.Count)
		}
	}
	return tw.Flush()
}
