// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wayfare/internal/platform/apperr"
	"github.com/taibuivan/wayfare/internal/users/auth"
	"github.com/taibuivan/wayfare/internal/users/session"
	"github.com/taibuivan/wayfare/internal/users/session/sessiontest"
)

// memoryUsers keeps accounts in a map and mirrors them into the session
// repository so session rows can reference them.
type memoryUsers struct {
	mu       sync.Mutex
	users    map[string]*auth.User
	sessions *sessiontest.MemoryRepository
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, found := m.users[username]
	if !found {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.users[user.Username]; taken {
		return apperr.Conflict("Username already taken")
	}
	copied := *user
	m.users[user.Username] = &copied
	m.sessions.Users[user.ID] = user.Username
	return nil
}

type fixture struct {
	server   *httptest.Server
	sessions *sessiontest.MemoryRepository
	service  *auth.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sessions := sessiontest.NewMemoryRepository(nil)
	users := &memoryUsers{users: map[string]*auth.User{}, sessions: sessions}
	manager := session.NewManager(sessions, false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service := auth.NewService(users, manager)

	server := httptest.NewServer(auth.NewHandler(service, manager).Routes())
	t.Cleanup(server.Close)

	return fixture{server: server, sessions: sessions, service: service}
}

func (f fixture) do(t *testing.T, method, path, body string, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	request, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		request.AddCookie(cookie)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	payload := map[string]any{}
	_ = json.NewDecoder(response.Body).Decode(&payload)
	return response, payload
}

func sessionCookie(response *http.Response) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == "wayfare_session" {
			return cookie
		}
	}
	return nil
}

/*
TestAuthFlow walks register, logout, me, bad login and good login end to end.
*/
func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	response, body := f.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["id"])

	cookie := sessionCookie(response)
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 64)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 604800, cookie.MaxAge)

	response, body = f.do(t, http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "alice", body["username"])

	response, body = f.do(t, http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, body["success"])
	cleared := sessionCookie(response)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	response, body = f.do(t, http.MethodGet, "/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "Not authenticated", body["error"])

	response, body = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"wrongpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "Invalid username or password", body["error"])
	assert.Nil(t, sessionCookie(response))

	response, body = f.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.NotNil(t, sessionCookie(response))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing_password", `{"username":"alice"}`},
		{"missing_username", `{"password":"secret1"}`},
		{"short_username", `{"username":"al","password":"secret1"}`},
		{"long_username", `{"username":"` + strings.Repeat("a", 31) + `","password":"secret1"}`},
		{"short_password", `{"username":"alice","password":"12345"}`},
		{"invalid_json", `{"username":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, body := f.do(t, http.MethodPost, "/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, response.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
		})
	}
}

/*
TestRegister_CaseInsensitive verifies usernames are stored trimmed and lower-cased
and that a differently cased duplicate conflicts.
*/
func TestRegister_CaseInsensitive(t *testing.T) {
	f := newFixture(t)

	response, body := f.do(t, http.MethodPost, "/register", `{"username":"  Alice ","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	assert.Equal(t, "alice", body["username"])

	response, body = f.do(t, http.MethodPost, "/register", `{"username":"ALICE","password":"another"}`, nil)
	assert.Equal(t, http.StatusConflict, response.StatusCode)
	assert.Equal(t, "Username already taken", body["error"])

	response, _ = f.do(t, http.MethodPost, "/login", `{"username":"ALICE","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestLogin_UnknownUserMatchesWrongPassword(t *testing.T) {
	f := newFixture(t)

	response, body := f.do(t, http.MethodPost, "/login", `{"username":"nobody","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "Invalid username or password", body["error"])

	response, _ = f.do(t, http.MethodPost, "/login", `{"username":"","password":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestLogout_WithoutCookie(t *testing.T) {
	f := newFixture(t)

	response, body := f.do(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, body["success"])
}

/*
TestLogin_ManySessions verifies each login opens an independent session.
*/
func TestLogin_ManySessions(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), auth.Credentials{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)

	first, err := f.service.Login(context.Background(), auth.Credentials{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)
	second, err := f.service.Login(context.Background(), auth.Credentials{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 3, f.sessions.Len())

	require.NoError(t, f.service.Logout(context.Background(), first.Token))
	identity, err := f.service.Me(context.Background(), second.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", identity.Username)
}

/*
TestPassword_WhitespaceIsKept verifies passwords are never trimmed: six spaces
is a valid password and only that exact value signs in.
*/
func TestPassword_WhitespaceIsKept(t *testing.T) {
	f := newFixture(t)

	response, _ := f.do(t, http.MethodPost, "/register", `{"username":"carol","password":"      "}`, nil)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	response, _ = f.do(t, http.MethodPost, "/login", `{"username":"carol","password":"      "}`, nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	response, _ = f.do(t, http.MethodPost, "/login", `{"username":"carol","password":"     "}`, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response, body := f.do(t, http.MethodPost, "/register", `{"username":"dave","password":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}
