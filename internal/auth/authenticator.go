// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/store"
)

// Authentication errors. Callers map both to a single generic message.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidOrExpiredSession = errors.New("invalid or expired session")
)

// Accounts is the subset of the store used for logging in.
type Accounts interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	UpdateUserPassword(ctx context.Context, arg store.UpdateUserPasswordParams) error
	UpdateUserLastLogin(ctx context.Context, arg store.UpdateUserLastLoginParams) error
}

// Revoker tracks token IDs of logged-out sessions.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims is the payload of a session credential.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies administrator credentials and issues, validates
// and revokes signed session tokens.
type Authenticator struct {
	accounts Accounts
	revoked  Revoker
	secret   []byte
	logger   *slog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthenticator creates an authenticator signing tokens with secret.
func NewAuthenticator(accounts Accounts, revoked Revoker, secret []byte, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		accounts: accounts,
		revoked:  revoked,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks email and password and issues a session token valid for
// model.SessionLifetime. Unknown email and wrong password both return
// ErrInvalidCredentials after the same amount of hashing work.
func (a *Authenticator) Login(ctx context.Context, email, password string) (model.AdminSession, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.AdminSession{}, "", ErrInvalidCredentials
	}

	user, err := a.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_, _ = CheckPassword(password, a.dummy())
			return model.AdminSession{}, "", ErrInvalidCredentials
		}
		return model.AdminSession{}, "", fmt.Errorf("looking up account: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		a.logger.Warn("unreadable password hash", "user_id", user.ID, "error", err)
	}
	if !ok || user.Role != model.RoleAdmin {
		return model.AdminSession{}, "", ErrInvalidCredentials
	}

	now := a.now().UTC()
	if NeedsRehash(user.PasswordHash) {
		a.rehash(ctx, user.ID, password, now)
	}
	if err := a.accounts.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		a.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	session := model.AdminSession{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		TokenID:   uuid.NewString(),
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Truncate(time.Second).Add(model.SessionLifetime),
	}
	token, err := a.sign(session)
	if err != nil {
		return model.AdminSession{}, "", err
	}
	return session, token, nil
}

func (a *Authenticator) rehash(ctx context.Context, userID int64, password string, now time.Time) {
	hash, err := HashPassword(password)
	if err != nil {
		a.logger.Warn("failed to rehash password", "user_id", userID, "error", err)
		return
	}
	if err := a.accounts.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now,
		ID:           userID,
	}); err != nil {
		a.logger.Warn("failed to store rehashed password", "user_id", userID, "error", err)
		return
	}
	a.logger.Info("password hash upgraded to argon2id", "user_id", userID)
}

func (a *Authenticator) dummy() string {
	a.dummyOnce.Do(func() {
		h, err := HashPassword(uuid.NewString())
		if err != nil {
			a.logger.Error("failed to create dummy hash", "error", err)
		}
		a.dummyHash = h
	})
	return a.dummyHash
}

func (a *Authenticator) sign(s model.AdminSession) (string, error) {
	claims := Claims{
		UserID: s.UserID,
		Email:  s.Email,
		Name:   s.Name,
		Role:   s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   fmt.Sprintf("%d", s.UserID),
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Validate decodes a session token. Any signature, algorithm, claim or
// expiry problem, as well as a revoked token ID, yields
// ErrInvalidOrExpiredSession.
func (a *Authenticator) Validate(ctx context.Context, tokenString string) (model.AdminSession, error) {
	if tokenString == "" {
		return model.AdminSession{}, ErrInvalidOrExpiredSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil || !token.Valid {
		return model.AdminSession{}, ErrInvalidOrExpiredSession
	}

	if claims.ID == "" || claims.UserID == 0 || claims.Role != model.RoleAdmin || claims.IssuedAt == nil {
		return model.AdminSession{}, ErrInvalidOrExpiredSession
	}

	revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Error("revocation check failed", "error", err)
		return model.AdminSession{}, ErrInvalidOrExpiredSession
	}
	if revoked {
		return model.AdminSession{}, ErrInvalidOrExpiredSession
	}

	return model.AdminSession{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (a *Authenticator) Logout(ctx context.Context, s model.AdminSession) error {
	if err := a.revoked.Revoke(ctx, s.TokenID, s.Remaining(a.now())); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
