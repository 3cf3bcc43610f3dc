// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sessiontest provides an in-memory session repository for tests of
// packages that sit on top of the session manager.
package sessiontest

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/wayfare/internal/users/session"
)

// MemoryRepository implements [session.Repository] with a map.
//
// Usernames are resolved through Users, mirroring the join the SQL adapter does.
// Setting Err makes every call fail with it.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]session.Record
	Users    map[string]string
	Err      error
	Deletes  int
}

// NewMemoryRepository returns an empty repository that knows the given user id -> username pairs.
func NewMemoryRepository(users map[string]string) *MemoryRepository {
	if users == nil {
		users = map[string]string{}
	}
	return &MemoryRepository{sessions: map[string]session.Record{}, Users: users}
}

// Insert implements [session.Repository].
func (repository *MemoryRepository) Insert(_ context.Context, token, userID string, expiresAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.Err != nil {
		return repository.Err
	}
	if _, exists := repository.sessions[token]; exists {
		return session.ErrDuplicateToken
	}
	username, known := repository.Users[userID]
	if !known {
		return session.ErrUnknownUser
	}

	repository.sessions[token] = session.Record{Token: token, UserID: userID, Username: username, ExpiresAt: expiresAt}
	return nil
}

// FindByToken implements [session.Repository].
func (repository *MemoryRepository) FindByToken(_ context.Context, token string) (*session.Record, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.Err != nil {
		return nil, repository.Err
	}
	record, found := repository.sessions[token]
	if !found {
		return nil, session.ErrSessionNotFound
	}
	return &record, nil
}

// DeleteByToken implements [session.Repository].
func (repository *MemoryRepository) DeleteByToken(_ context.Context, token string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.Err != nil {
		return repository.Err
	}
	repository.Deletes++
	delete(repository.sessions, token)
	return nil
}

// DeleteExpired implements [session.Repository].
func (repository *MemoryRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.Err != nil {
		return 0, repository.Err
	}
	var removed int64
	for token, record := range repository.sessions {
		if record.ExpiresAt.Before(before) {
			delete(repository.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// Put stores a record directly, bypassing the user check.
func (repository *MemoryRepository) Put(record session.Record) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.sessions[record.Token] = record
}

// Len returns the number of stored sessions.
func (repository *MemoryRepository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.sessions)
}
