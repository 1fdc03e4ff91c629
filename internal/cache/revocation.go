// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"time"
)

// RevokedPrefix is prepended to every revoked token ID.
const RevokedPrefix = "revoked:"

// RevocationList records token IDs that must no longer be accepted.
// Entries expire on their own once the token would have expired anyway.
type RevocationList struct {
	keys    KeySet
	backend string
}

// NewRevocationList returns a revocation list stored in keys.
// backend names the store for status reports.
func NewRevocationList(keys KeySet, backend string) *RevocationList {
	return &RevocationList{keys: keys, backend: backend}
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl means the
// token has already expired and nothing is stored.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("empty token id")
	}
	if ttl <= 0 {
		return nil
	}
	return r.keys.Put(ctx, RevokedPrefix+tokenID, ttl)
}

// IsRevoked reports whether tokenID has been revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return r.keys.Has(ctx, RevokedPrefix+tokenID)
}

// RevocationStatus is a point-in-time view of the revocation list.
type RevocationStatus struct {
	Backend string
	Active  int
}

// Status pings the backing store and counts the revocations still in force.
func (r *RevocationList) Status(ctx context.Context) (RevocationStatus, error) {
	st := RevocationStatus{Backend: r.backend}
	if err := r.keys.Ping(ctx); err != nil {
		return st, err
	}
	n, err := r.keys.Len(ctx)
	if err != nil {
		return st, err
	}
	st.Active = n
	return st, nil
}
