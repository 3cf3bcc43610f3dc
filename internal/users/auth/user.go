// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration and password login.

Accounts are deliberately minimal: a case-insensitive username and a password
hash. Everything session-related is delegated to the session package. This
package only decides when a session may be opened or closed.
*/
package auth

import (
	"errors"
	"time"
)

// # Domain Entities

// User represents a registered account. It is immutable after registration.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// ErrUserNotFound is returned by [UserRepository] lookups that match nothing.
var ErrUserNotFound = errors.New("auth: user not found")

// # Account Rules

const (
	// UsernameMinLength and UsernameMaxLength bound the normalized username.
	UsernameMinLength = 3
	UsernameMaxLength = 30

	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 6
)

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)
