// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given normalized username.

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or storage failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict when the username is taken, or storage failures
	*/
	Create(ctx context.Context, user *User) error
}
