// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli implements the surveyctl administration commands.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olegiv/opinion-survey/internal/store"
)

const defaultDBPath = "./data/survey.db"

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
)

// NewRootCmd returns the surveyctl root command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Administer the Myanmar public opinion survey",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("SURVEY_DB_PATH", defaultDBPath), "SQLite database path")

	open := func() (*sql.DB, error) { return openDB(dbPath) }

	rootCmd.AddCommand(AdminCmd(open))
	rootCmd.AddCommand(ExportCmd(open))
	rootCmd.AddCommand(StatsCmd(open))

	return rootCmd
}

// opener opens the migrated survey database.
type opener func() (*sql.DB, error)

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
