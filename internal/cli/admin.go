// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/opinion-survey/internal/auth"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
)

const defaultAdminEmail = "admin@myanmar-survey.com"

// AdminCmd returns the admin command group.
func AdminCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(adminCreateCmd(open))
	return cmd
}

func adminCreateCmd(open opener) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the administrator account if it does not exist",
		Long: `Create an administrator account. Running it again with the same
email leaves the existing account untouched.

Examples:
  surveyctl admin create --password 'long random passphrase'
  SURVEY_ADMIN_PASSWORD=... surveyctl admin create --email ops@example.org`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("password is required (--password or SURVEY_ADMIN_PASSWORD)")
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			db, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			created, err := store.SeedAdmin(cmd.Context(), db, store.SeedAdminParams{
				Email:        email,
				Name:         name,
				PasswordHash: hash,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				_, _ = fmt.Fprintf(out, "%s admin %s\n", okText("created"), email)
			} else {
				_, _ = fmt.Fprintf(out, "%s admin %s already exists\n", warnText("skipped"), email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", envOr("SURVEY_ADMIN_EMAIL", defaultAdminEmail), "Administrator email")
	cmd.Flags().StringVar(&password, "password", envOr("SURVEY_ADMIN_PASSWORD", ""), "Administrator password")
	cmd.Flags().StringVar(&name, "name", model.DefaultAdminName, "Display name")

	return cmd
}
