// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Backend types.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds configuration for key set creation.
type Config struct {
	// Backend is "memory" or "redis".
	Backend string

	// RedisURL is the Redis connection URL (only for redis backend)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the Redis key prefix (only for redis backend)
	Prefix string

	// FallbackToMemory uses a memory key set when Redis is unreachable.
	FallbackToMemory bool

	// MaxSize is the maximum number of keys held in memory (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for purging expired keys in memory
	CleanupInterval time.Duration
}

// DefaultConfig returns the default key set configuration.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendMemory,
		Prefix:           "survey:",
		FallbackToMemory: true,
		MaxSize:          100000,
		CleanupInterval:  time.Minute,
	}
}

// Result describes the key set that New created.
type Result struct {
	KeySet     KeySet
	Backend    string
	IsFallback bool
	// RedisErr is the connection error that caused a fallback.
	RedisErr error
}

// New creates a key set and reports which backend is in use.
// Redis is used when Backend is "redis" and RedisURL is set.
func New(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Backend == BackendRedis && cfg.RedisURL != "" {
		rs, err := NewRedisKeySet(ctx, cfg.RedisURL, cfg.Prefix)
		if err == nil {
			return Result{KeySet: rs, Backend: BackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return Result{}, fmt.Errorf("connecting to redis at %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
		}
		return Result{
			KeySet:     newMemoryFromConfig(cfg),
			Backend:    BackendMemory,
			IsFallback: true,
			RedisErr:   err,
		}, nil
	}

	return Result{KeySet: newMemoryFromConfig(cfg), Backend: BackendMemory}, nil
}

func newMemoryFromConfig(cfg Config) *MemoryKeySet {
	return NewMemoryKeySet(MemoryOptions{
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password in a Redis URL so it can be logged.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
