// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the expiring key set behind the session revocation
// list, kept in process memory or in Redis.
package cache

import (
	"context"
	"time"
)

// KeySet is a set of keys that each expire after their own TTL.
// Implementations are safe for concurrent use.
type KeySet interface {
	// Put adds key for ttl. Putting an existing key extends its lifetime.
	Put(ctx context.Context, key string, ttl time.Duration) error

	// Has reports whether key is present and not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Len returns the number of live keys.
	Len(ctx context.Context) (int, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// Error is a cache error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrClosed is returned by a key set after Close.
	ErrClosed Error = "key set closed"

	// ErrFull is returned when a bounded key set has no room left.
	ErrFull Error = "key set full"

	// ErrInvalidTTL is returned for a non-positive TTL.
	ErrInvalidTTL Error = "ttl must be positive"
)
