// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/wayfare/internal/platform/apperr"
	"github.com/taibuivan/wayfare/internal/platform/sec"
	"github.com/taibuivan/wayfare/internal/users/session"
	"github.com/taibuivan/wayfare/pkg/uuid"
)

// # Contracts & Types

// SessionManager is the part of [session.Manager] the service drives.
type SessionManager interface {
	CreateSession(ctx context.Context, userID string) (string, error)
	DestroySession(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*session.Identity, error)
}

// Service implements the account use cases.
type Service struct {
	userRepository UserRepository
	sessions       SessionManager
}

// NewService constructs a new [Service].
func NewService(users UserRepository, sessions SessionManager) *Service {
	return &Service{userRepository: users, sessions: sessions}
}

// Credentials is the username/password pair submitted by register and login.
type Credentials struct {
	Username string
	Password string
}

// SignedIn is an account together with the token of its freshly opened session.
type SignedIn struct {
	User  *User
	Token string
}

// errInvalidCredentials is shared by every login failure so that an unknown
// user and a wrong password look the same.
var errInvalidCredentials = apperr.Unauthorized("Invalid username or password")

// # Registration Flow

/*
Register creates an account and opens its first session.

Parameters:
  - ctx: context.Context
  - input: Credentials (username is normalized here)

Returns:
  - *SignedIn: Created account and session token
  - error: Conflict (username taken) or storage errors
*/
func (service *Service) Register(ctx context.Context, input Credentials) (*SignedIn, error) {
	username := sec.NormalizeUsername(input.Username)

	_, err := service.userRepository.FindByUsername(ctx, username)
	if err == nil {
		return nil, apperr.Conflict("Username already taken")
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.StoreUnavailable(err)
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: hash password: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.StoreUnavailable(err)
	}

	return service.openSession(ctx, user)
}

// # Login Flow

/*
Login verifies the credentials and opens a new session.

Returns:
  - *SignedIn: The account and its new session token
  - error: Unauthorized for any credential mismatch, or storage errors
*/
func (service *Service) Login(ctx context.Context, input Credentials) (*SignedIn, error) {
	user, err := service.userRepository.FindByUsername(ctx, sec.NormalizeUsername(input.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.StoreUnavailable(err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return service.openSession(ctx, user)
}

// # Session Flow

// Logout closes the session behind token. An empty or unknown token is a no-op.
func (service *Service) Logout(ctx context.Context, token string) error {
	if err := service.sessions.DestroySession(ctx, token); err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// Me resolves the account behind token.
func (service *Service) Me(ctx context.Context, token string) (*session.Identity, error) {
	return service.sessions.Authenticate(ctx, token)
}

func (service *Service) openSession(ctx context.Context, user *User) (*SignedIn, error) {
	token, err := service.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return &SignedIn{User: user, Token: token}, nil
}
