// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/opinion-survey/internal/model"
)

// SeedAdminParams describes the administrator account to ensure.
type SeedAdminParams struct {
	Email string
	Name  string
	// PasswordHash is the already hashed password.
	PasswordHash string
}

// SeedAdmin creates the administrator account unless one with the same email
// exists. It reports whether an account was created.
func SeedAdmin(ctx context.Context, db DBTX, p SeedAdminParams) (bool, error) {
	queries := New(db)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || p.PasswordHash == "" {
		return false, errors.New("seed admin: email and password hash are required")
	}

	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", email)
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("checking for admin user: %w", err)
	}

	name := p.Name
	if name == "" {
		name = model.DefaultAdminName
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: p.PasswordHash,
		Role:         model.RoleAdmin,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return true, nil
}
