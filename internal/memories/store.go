// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memories

import "context"

// Repository defines the data access contract for memories.
type Repository interface {
	// ListByOwner returns the owner's memories by assigned date, then creation time.
	ListByOwner(ctx context.Context, userID string) ([]Memory, error)

	// FindByID returns [ErrMemoryNotFound] when no row matches.
	FindByID(ctx context.Context, id string) (*Memory, error)

	Create(ctx context.Context, memory *Memory) error

	// Delete removes the row. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error
}
