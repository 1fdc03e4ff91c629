// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis client timeouts.
const (
	redisDialTimeout = 5 * time.Second
	redisIOTimeout   = 3 * time.Second
	redisPoolSize    = 10
	redisScanCount   = 500
)

// RedisKeySet stores keys in Redis with native expiry, so every server
// process sharing the instance sees the same set.
type RedisKeySet struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// NewRedisKeySet connects to the Redis instance at url. Every key is stored
// under prefix.
func NewRedisKeySet(ctx context.Context, url, prefix string) (*RedisKeySet, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisIOTimeout
	opts.WriteTimeout = redisIOTimeout
	opts.PoolSize = redisPoolSize

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisKeySet{client: client, prefix: prefix}, nil
}

// Put sets key with a Redis expiry of ttl.
func (s *RedisKeySet) Put(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if s.closed.Load() {
		return ErrClosed
	}
	return s.client.Set(ctx, s.prefix+key, "1", ttl).Err()
}

// Has reports whether key exists.
func (s *RedisKeySet) Has(ctx context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Len counts the keys under the prefix with SCAN.
func (s *RedisKeySet) Len(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", redisScanCount).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

// Ping checks the connection.
func (s *RedisKeySet) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the client. Keys stay in Redis until they expire.
func (s *RedisKeySet) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}
