// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/transfer"
)

// ExportCmd returns the export command.
func ExportCmd(open opener) *cobra.Command {
	var format, start, end, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored responses as CSV or JSON",
		Long: `Export stored responses, oldest first.

Dates are YYYY-MM-DD in UTC and both bounds are inclusive. Without --out the
file is named after today's date; use --out - for stdout.

Examples:
  surveyctl export
  surveyctl export --format json --start 2025-11-01 --end 2025-11-30
  surveyctl export --out - | head`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			from, err := transfer.ParseBound(start, false)
			if err != nil {
				return err
			}
			to, err := transfer.ParseBound(end, true)
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			responses, err := service.NewResponseService(db, nil).Between(cmd.Context(), from, to)
			if err != nil {
				return fmt.Errorf("reading responses: %w", err)
			}

			now := time.Now()
			if out == "" {
				out = f.Filename(now)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			if err := transfer.Write(w, f, responses, now); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			if out != "-" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %d responses to %s\n", okText("exported"), len(responses), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(transfer.FormatCSV), "Export format: csv or json")
	cmd.Flags().StringVar(&start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout")

	return cmd
}
