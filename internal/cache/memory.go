// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryKeySet keeps keys in a map with their expiry time.
type MemoryKeySet struct {
	mu      sync.Mutex
	expires map[string]time.Time
	maxSize int
	closed  bool
	stopCh  chan struct{}
	now     func() time.Time
}

// MemoryOptions configures a MemoryKeySet.
type MemoryOptions struct {
	MaxSize         int           // Maximum number of keys (0 = unlimited)
	CleanupInterval time.Duration // Interval for purging expired keys (0 = no background purge)
}

// NewMemoryKeySet creates an in-memory key set.
func NewMemoryKeySet(opts MemoryOptions) *MemoryKeySet {
	s := &MemoryKeySet{
		expires: make(map[string]time.Time),
		maxSize: opts.MaxSize,
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	if opts.CleanupInterval > 0 {
		go s.cleanupLoop(opts.CleanupInterval)
	}
	return s
}

// Put adds key for ttl. When the set is full, expired keys are purged first;
// live keys are never evicted, so a full set refuses new keys with ErrFull.
func (s *MemoryKeySet) Put(_ context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	now := s.now()
	if _, exists := s.expires[key]; !exists && s.maxSize > 0 && len(s.expires) >= s.maxSize {
		s.purgeLocked(now)
		if len(s.expires) >= s.maxSize {
			return ErrFull
		}
	}
	s.expires[key] = now.Add(ttl)
	return nil
}

// Has reports whether key is present and not expired.
func (s *MemoryKeySet) Has(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	exp, ok := s.expires[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.expires, key)
		return false, nil
	}
	return true, nil
}

// Len returns the number of live keys.
func (s *MemoryKeySet) Len(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.purgeLocked(s.now())
	return len(s.expires), nil
}

// Ping fails only after Close.
func (s *MemoryKeySet) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close stops the cleanup loop and drops every key.
func (s *MemoryKeySet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.expires = nil
	close(s.stopCh)
	return nil
}

// purgeLocked removes expired keys. Caller must hold s.mu.
func (s *MemoryKeySet) purgeLocked(now time.Time) {
	for key, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, key)
		}
	}
}

func (s *MemoryKeySet) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if !s.closed {
				s.purgeLocked(s.now())
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
