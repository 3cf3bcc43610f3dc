// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wayfare/internal/platform/dberr"
	"github.com/taibuivan/wayfare/internal/platform/postgres"
	"github.com/taibuivan/wayfare/internal/platform/validate"
)

const memoryColumns = `id, user_id, image_url, assigned_date, message, mode_type, created_at`

// PostgresRepository implements [Repository] on the memories table.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository creates a memories repository over db.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOwner returns the memories of userID in timeline order.
func (repository *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]Memory, error) {
	const query = `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE user_id = $1 AND user_id <> ''
		ORDER BY assigned_date ASC, created_at ASC`

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_memory_repo_list_failed: %w", err)
	}

	memories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Memory, error) {
		memory, err := scanMemory(row)
		if err != nil {
			return Memory{}, err
		}
		return *memory, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_memory_repo_list_failed: %w", err)
	}

	return memories, nil
}

/*
FindByID retrieves a memory regardless of its owner.

Returns:
  - *Memory: The row
  - error: ErrMemoryNotFound or database errors
*/
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Memory, error) {
	const query = `SELECT ` + memoryColumns + ` FROM memories WHERE id = $1`

	memory, err := scanMemory(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("postgres_memory_repo_find_failed: %w", err)
	}

	return memory, nil
}

// Create inserts memory. AssignedDate must already be validated.
func (repository *PostgresRepository) Create(ctx context.Context, memory *Memory) error {
	const query = `
		INSERT INTO memories (` + memoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	assignedDate, err := time.Parse(validate.DateLayout, memory.AssignedDate)
	if err != nil {
		return fmt.Errorf("postgres_memory_repo_create_failed: %w", err)
	}

	_, err = repository.db.Exec(ctx, query,
		memory.ID,
		memory.UserID,
		memory.ImageURL,
		assignedDate,
		memory.Message,
		string(memory.ModeType),
		memory.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_memory_repo_create_failed: %w", err)
	}

	return nil
}

// Delete removes the row with id.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM memories WHERE id = $1`

	if _, err := repository.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres_memory_repo_delete_failed: %w", err)
	}

	return nil
}

func scanMemory(row pgx.Row) (*Memory, error) {
	var (
		memory       Memory
		assignedDate time.Time
		mode         string
	)

	err := row.Scan(
		&memory.ID,
		&memory.UserID,
		&memory.ImageURL,
		&assignedDate,
		&memory.Message,
		&mode,
		&memory.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	memory.AssignedDate = assignedDate.Format(validate.DateLayout)
	memory.ModeType = Mode(mode)
	return &memory, nil
}
