// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// RoleAdmin is the only account role.
const RoleAdmin = "ADMIN"

// SessionLifetime is how long an admin session credential stays valid.
const SessionLifetime = 24 * time.Hour

// User represents an administrator account.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AdminSession is the decoded content of a valid session credential.
type AdminSession struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry at now.
func (s AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Remaining returns the lifetime left at now, or zero once expired.
func (s AdminSession) Remaining(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// Summary is the account view returned to the admin client.
type Summary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Summary returns the client-facing view of the session's account.
func (s AdminSession) Summary() Summary {
	return Summary{ID: s.UserID, Email: s.Email, Name: s.Name, Role: s.Role}
}
