// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wayfare/internal/users/session"
	"github.com/taibuivan/wayfare/internal/users/session/sessiontest"
)

// countingRepository records how often lookups reach the backing store.
type countingRepository struct {
	*sessiontest.MemoryRepository
	finds int
}

func (repository *countingRepository) FindByToken(ctx context.Context, token string) (*session.Record, error) {
	repository.finds++
	return repository.MemoryRepository.FindByToken(ctx, token)
}

func newCached(t *testing.T, ttl time.Duration) (*session.CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepository{MemoryRepository: sessiontest.NewMemoryRepository(nil)}
	return session.NewCachedRepository(backing, client, ttl, discardLogger), backing, server
}

/*
TestCachedRepository_ReadThrough verifies the second lookup is served by Redis.
*/
func TestCachedRepository_ReadThrough(t *testing.T) {
	cached, backing, server := newCached(t, 5*time.Minute)
	backing.Put(session.Record{Token: "tok", UserID: "u1", Username: "alice", ExpiresAt: time.Now().Add(time.Hour)})

	for range 2 {
		record, err := cached.FindByToken(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "alice", record.Username)
		assert.Equal(t, "tok", record.Token)
	}

	assert.Equal(t, 1, backing.finds)
	assert.True(t, server.Exists("auth:session:tok"))

	ttl := server.TTL("auth:session:tok")
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, 5*time.Minute)
}

func TestCachedRepository_TTLBoundedByExpiry(t *testing.T) {
	cached, backing, server := newCached(t, time.Hour)
	backing.Put(session.Record{Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(10 * time.Second)})

	_, err := cached.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.LessOrEqual(t, server.TTL("auth:session:tok"), 10*time.Second)

	// Expired records are returned for lazy cleanup but never cached.
	backing.Put(session.Record{Token: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)})
	_, err = cached.FindByToken(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, server.Exists("auth:session:old"))
}

func TestCachedRepository_DeleteEvicts(t *testing.T) {
	cached, backing, server := newCached(t, 5*time.Minute)
	backing.Put(session.Record{Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := cached.FindByToken(context.Background(), "tok")
	require.NoError(t, err)

	require.NoError(t, cached.DeleteByToken(context.Background(), "tok"))
	assert.False(t, server.Exists("auth:session:tok"))

	_, err = cached.FindByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

/*
TestCachedRepository_RedisDown verifies lookups fall back to the backing store.
*/
func TestCachedRepository_RedisDown(t *testing.T) {
	cached, backing, server := newCached(t, 5*time.Minute)
	backing.Put(session.Record{Token: "tok", UserID: "u1", Username: "alice", ExpiresAt: time.Now().Add(time.Hour)})
	server.SetError("LOADING Redis is loading the dataset in memory")

	record, err := cached.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Username)

	require.NoError(t, cached.DeleteByToken(context.Background(), "tok"))
	assert.Equal(t, 0, backing.Len())
}

/*
TestCachedRepository_FailedEvictionIsBounded verifies that a session deleted
while Redis refuses writes stays cached no longer than MaxCacheTTL.
*/
func TestCachedRepository_FailedEvictionIsBounded(t *testing.T) {
	cached, backing, server := newCached(t, time.Hour)
	backing.Put(session.Record{Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(24 * time.Hour)})

	_, err := cached.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.LessOrEqual(t, server.TTL("auth:session:tok"), session.MaxCacheTTL)

	server.SetError("READONLY You can't write against a read only replica.")
	require.NoError(t, cached.DeleteByToken(context.Background(), "tok"))
	server.SetError("")

	assert.True(t, server.Exists("auth:session:tok"))
	server.FastForward(session.MaxCacheTTL)
	assert.False(t, server.Exists("auth:session:tok"))

	_, err = cached.FindByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
