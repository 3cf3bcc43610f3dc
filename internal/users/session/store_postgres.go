// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/wayfare/internal/platform/dberr"
	"github.com/taibuivan/wayfare/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the sessions table.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository creates a session repository over db.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Insert persists a new session row.

Returns:
  - error: ErrDuplicateToken, ErrUnknownUser, or ErrStoreUnavailable
*/
func (repository *PostgresRepository) Insert(ctx context.Context, token, userID string, expiresAt time.Time) error {
	const query = `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`

	_, err := repository.db.Exec(ctx, query, token, userID, expiresAt)
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		return ErrDuplicateToken
	case dberr.IsForeignKeyViolation(err):
		return ErrUnknownUser
	default:
		return unavailable("postgres_session_repo_insert_failed", err)
	}
}

/*
FindByToken loads a session together with the owner's username.

Returns:
  - *Record: Session with its expiry, possibly already in the past
  - error: ErrSessionNotFound or ErrStoreUnavailable
*/
func (repository *PostgresRepository) FindByToken(ctx context.Context, token string) (*Record, error) {
	const query = `
		SELECT s.user_id, u.username, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`

	record := &Record{Token: token}
	err := repository.db.QueryRow(ctx, query, token).Scan(&record.UserID, &record.Username, &record.ExpiresAt)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrSessionNotFound
		}
		return nil, unavailable("postgres_session_repo_find_failed", err)
	}

	return record, nil
}

// DeleteByToken removes the session row if present.
func (repository *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`

	if _, err := repository.db.Exec(ctx, query, token); err != nil {
		return unavailable("postgres_session_repo_delete_failed", err)
	}

	return nil
}

// DeleteExpired purges sessions whose expiry lies strictly before the cutoff.
func (repository *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`

	tag, err := repository.db.Exec(ctx, query, before)
	if err != nil {
		return 0, unavailable("postgres_session_repo_sweep_failed", err)
	}

	return tag.RowsAffected(), nil
}

func unavailable(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrStoreUnavailable, err)
}
