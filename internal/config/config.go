// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"fallback-secret",
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SURVEY_DB_PATH" envDefault:"./data/survey.db"`
	JWTSecret     string `env:"SURVEY_JWT_SECRET,required"`
	SessionSecret string `env:"SURVEY_SESSION_SECRET,required"`
	ServerHost    string `env:"SURVEY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SURVEY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SURVEY_ENV" envDefault:"development"`
	LogLevel      string `env:"SURVEY_LOG_LEVEL" envDefault:"info"`

	// Revocation list backend
	RedisURL    string `env:"SURVEY_REDIS_URL"`                         // Optional; in-memory when empty
	CachePrefix string `env:"SURVEY_CACHE_PREFIX" envDefault:"survey:"` // Redis key prefix

	// GeoIP configuration
	GeoIPDBPath string `env:"SURVEY_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Admin seeding
	DoSeed        bool   `env:"SURVEY_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"SURVEY_ADMIN_EMAIL" envDefault:"admin@myanmar-survey.com"`
	AdminPassword string `env:"SURVEY_ADMIN_PASSWORD"`

	// EventRetentionDays controls how long event log entries are kept.
	EventRetentionDays int `env:"SURVEY_EVENT_RETENTION_DAYS" envDefault:"90"`

	// TrustProxy honours X-Forwarded-For and X-Real-IP for client addresses.
	TrustProxy bool `env:"SURVEY_TRUST_PROXY" envDefault:"false"`

	// TrustedOrigins are host values allowed to make cross-origin form posts.
	TrustedOrigins []string `env:"SURVEY_TRUSTED_ORIGINS" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if the revocation list should be kept in Redis.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSecretLength is the minimum required length for signing secrets.
// HS256 keys shorter than the hash output weaken the signature.
const MinSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := checkSecret("SURVEY_JWT_SECRET", cfg.JWTSecret); err != nil {
		return nil, err
	}
	if err := checkSecret("SURVEY_SESSION_SECRET", cfg.SessionSecret); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == cfg.SessionSecret {
		slog.Warn("SURVEY_JWT_SECRET and SURVEY_SESSION_SECRET are identical; use distinct secrets")
	}

	return cfg, nil
}

// checkSecret validates length and rejects known defaults.
func checkSecret(name, secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			name, MinSecretLength, len(secret))
	}

	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return fmt.Errorf("%s is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32", name)
		}
	}

	if !hasMinimumEntropy(secret) {
		slog.Warn(name + " has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
