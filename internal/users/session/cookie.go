// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/taibuivan/wayfare/internal/platform/constants"
)

// LoginCookie describes the cookie that carries token for the full [TTL].
func (manager *Manager) LoginCookie(token string) *http.Cookie {
	return manager.cookie(token, int(TTL.Seconds()))
}

// LogoutCookie describes the deletion form of the session cookie.
// A negative MaxAge is written as "Max-Age=0".
func (manager *Manager) LogoutCookie() *http.Cookie {
	return manager.cookie("", -1)
}

func (manager *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   manager.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
