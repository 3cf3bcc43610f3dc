// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"time"
)

// Repository is the session store adapter.
//
// # Contract
//   - Insert: [ErrDuplicateToken], [ErrUnknownUser] or [ErrStoreUnavailable] on failure.
//   - FindByToken: [ErrSessionNotFound] when no row matches.
//   - DeleteByToken: idempotent, deleting a missing token is not an error.
//   - DeleteExpired: removes every session that expired before the cutoff.
type Repository interface {
	Insert(ctx context.Context, token, userID string, expiresAt time.Time) error
	FindByToken(ctx context.Context, token string) (*Record, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
