// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the lifecycle of server-side login sessions.

A session is a row keyed by an opaque random token. It lives for a fixed
seven days from creation and is never renewed. It disappears on logout or
on the first validation after it expired, whichever happens first.

# Token States

	nonexistent -> active -> deleted

# Outcomes

Expected conditions (unknown token, expired token) are reported as a typed
[Status]. Errors are reserved for infrastructure failures.
*/
package session

import (
	"errors"
	"time"
)

// # Lifetime

const (
	// TTL is the fixed lifetime of a session, counted from creation.
	TTL = 7 * 24 * time.Hour

	// TokenBytes is the number of random bytes behind a token (64 hex chars).
	TokenBytes = 32
)

// # Errors

var (
	// ErrSessionNotFound is returned by repositories when no row matches the token.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrDuplicateToken means the token collided with an existing row.
	ErrDuplicateToken = errors.New("session: duplicate token")

	// ErrUnknownUser means the session referenced a user that does not exist.
	ErrUnknownUser = errors.New("session: unknown user")

	// ErrStoreUnavailable wraps any failed round trip to the backing store.
	ErrStoreUnavailable = errors.New("session: store unavailable")
)

// # Entities

// Record is a stored session joined with its owner's username.
type Record struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the caller resolved from a valid session.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// Status classifies the outcome of a validation.
type Status int

const (
	// StatusNotFound means no session exists for the token.
	StatusNotFound Status = iota
	// StatusExpired means the session existed but had expired. It has now been deleted.
	StatusExpired
	// StatusValid means the session is active.
	StatusValid
)

// String returns the log-friendly name of the status.
func (status Status) String() string {
	switch status {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// Result is the outcome of [Manager.ValidateSession].
// Identity is only populated when Status is [StatusValid].
type Result struct {
	Status   Status
	Identity Identity
}

// Valid reports whether the session is active.
func (result Result) Valid() bool { return result.Status == StatusValid }
