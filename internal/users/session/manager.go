// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/wayfare/internal/platform/apperr"
	"github.com/taibuivan/wayfare/internal/platform/sec"
)

// Manager creates, validates and destroys sessions.
//
// It holds no mutable state of its own and is safe for concurrent use.
type Manager struct {
	repository    Repository
	secureCookies bool
	logger        *slog.Logger
	now           func() time.Time
}

// Option customizes a [Manager].
type Option func(*Manager)

// WithClock replaces the wall clock, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(manager *Manager) { manager.now = now }
}

// NewManager builds a manager over repository. secureCookies adds the Secure
// attribute to every cookie it describes and should be set in production only.
func NewManager(repository Repository, secureCookies bool, logger *slog.Logger, options ...Option) *Manager {
	manager := &Manager{
		repository:    repository,
		secureCookies: secureCookies,
		logger:        logger,
		now:           time.Now,
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

/*
CreateSession opens a new session for userID.

Description: Generates a fresh token and stores it with an expiry of now + [TTL].
A failed insert is returned as is. There is no retry.

Returns:
  - string: The session token to place in the cookie
  - error: Token generation or store failures
*/
func (manager *Manager) CreateSession(ctx context.Context, userID string) (string, error) {
	token, err := sec.GenerateSecureToken(TokenBytes)
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}

	expiresAt := manager.now().Add(TTL)
	if err := manager.repository.Insert(ctx, token, userID, expiresAt); err != nil {
		return "", fmt.Errorf("session: create failed: %w", err)
	}

	return token, nil
}

/*
ValidateSession resolves token to the identity that owns it.

Description: An unknown token yields [StatusNotFound]. A token whose expiry has
passed yields [StatusExpired] and, as a side effect, its row is deleted. Failing
to delete is logged and does not change the outcome.

Returns:
  - Result: The typed outcome
  - error: Store failures only
*/
func (manager *Manager) ValidateSession(ctx context.Context, token string) (Result, error) {
	if token == "" {
		return Result{Status: StatusNotFound}, nil
	}

	record, err := manager.repository.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Result{Status: StatusNotFound}, nil
		}
		return Result{}, err
	}

	if record.ExpiresAt.Before(manager.now()) {
		if err := manager.repository.DeleteByToken(ctx, token); err != nil {
			manager.logger.WarnContext(ctx, "session_expired_cleanup_failed", slog.Any("error", err))
		} else {
			manager.logger.DebugContext(ctx, "session_expired_cleanup", slog.String("user_id", record.UserID))
		}
		return Result{Status: StatusExpired}, nil
	}

	return Result{
		Status:   StatusValid,
		Identity: Identity{UserID: record.UserID, Username: record.Username},
	}, nil
}

// DestroySession deletes the session. Destroying an unknown token is not an error.
func (manager *Manager) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := manager.repository.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("session: destroy failed: %w", err)
	}
	return nil
}

/*
Authenticate is the API-facing form of [Manager.ValidateSession].

Returns:
  - *Identity: The caller
  - error: apperr.Unauthorized for an invalid session, apperr.StoreUnavailable otherwise
*/
func (manager *Manager) Authenticate(ctx context.Context, token string) (*Identity, error) {
	result, err := manager.ValidateSession(ctx, token)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	if !result.Valid() {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	return &result.Identity, nil
}
