// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/wayfare/internal/platform/constants"
)

// CachedRepository is a read-through Redis cache in front of another [Repository].
//
// # Consistency
//
// An entry never outlives the session it describes, and deletions go to the
// backing store first and the cache second. When the cache eviction fails, the
// deleted session can still resolve from cache for at most the entry TTL,
// which never exceeds [MaxCacheTTL].
//
// Redis failures are logged and bypassed. The backing store stays the source of truth.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// MaxCacheTTL bounds how long a cached entry may outlive a failed eviction.
// A logged-out token whose cache entry could not be deleted keeps validating
// for at most this long.
const MaxCacheTTL = 5 * time.Minute

// NewCachedRepository wraps next with a cache whose entries live at most ttl,
// clamped to [MaxCacheTTL].
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{next: next, client: client, ttl: min(ttl, MaxCacheTTL), logger: logger}
}

func cacheKey(token string) string {
	return constants.RedisPrefixSession + token
}

// Insert passes through. New sessions are cached on first lookup.
func (repository *CachedRepository) Insert(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return repository.next.Insert(ctx, token, userID, expiresAt)
}

// FindByToken serves from Redis when possible and fills the cache on a miss.
func (repository *CachedRepository) FindByToken(ctx context.Context, token string) (*Record, error) {
	payload, err := repository.client.Get(ctx, cacheKey(token)).Bytes()
	switch {
	case err == nil:
		record := &Record{}
		if jsonErr := json.Unmarshal(payload, record); jsonErr == nil {
			record.Token = token
			return record, nil
		}
		repository.logger.WarnContext(ctx, "session_cache_entry_corrupt")
	case !errors.Is(err, redis.Nil):
		repository.logger.WarnContext(ctx, "session_cache_read_failed", slog.Any("error", err))
	}

	record, err := repository.next.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	repository.store(ctx, record)
	return record, nil
}

// DeleteByToken removes the row, then the cache entry.
func (repository *CachedRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := repository.next.DeleteByToken(ctx, token); err != nil {
		return err
	}

	if err := repository.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		repository.logger.WarnContext(ctx, "session_cache_evict_failed", slog.Any("error", err))
	}

	return nil
}

// DeleteExpired passes through. Cached entries already expire with their session.
func (repository *CachedRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return repository.next.DeleteExpired(ctx, before)
}

func (repository *CachedRepository) store(ctx context.Context, record *Record) {
	ttl := min(repository.ttl, time.Until(record.ExpiresAt))
	if ttl <= 0 {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return
	}

	if err := repository.client.Set(ctx, cacheKey(record.Token), payload, ttl).Err(); err != nil {
		repository.logger.WarnContext(ctx, "session_cache_write_failed", slog.Any("error", err))
	}
}
