// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the survey service.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary file database opened the way production opens
// it, with migrations applied. It is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "survey-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

var memoryDBSeq atomic.Int64

// MemoryDB creates a migrated in-memory database on the go-sqlite3 driver.
// Each call gets its own database.
func MemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:survey-mem-%d?mode=memory&cache=shared&_foreign_keys=on", memoryDBSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// CreateAdmin inserts an administrator with the given password hash.
func CreateAdmin(t *testing.T, db *sql.DB, email, passwordHash string) store.User {
	t.Helper()

	now := time.Now().UTC()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         model.DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// CompleteDraft returns a draft that passes every step: an urban respondent
// from Yangon.
func CompleteDraft() model.Draft {
	return model.Draft{
		Age:              model.Age31To45,
		Location:         model.LocationUrban,
		CityName:         "Yangon",
		Occupation:       model.OccupationStudent,
		WillVote:         model.VoteYes,
		VotingFactors:    []model.VotingFactor{model.FactorPolicies},
		WinningParty:     model.PartyReform,
		CompetitionLevel: model.CompetitionVery,
		Interests:        []model.Interest{model.InterestEconomy},
		Expectations:     model.ExpectPeaceUnity,
		Concerns:         []model.Concern{model.ConcernViolence},
		Confidence:       model.ConfidenceSomewhat,
	}
}
