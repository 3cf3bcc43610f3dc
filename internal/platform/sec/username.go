// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// usernameCaser lower-cases without locale-specific rules.
var usernameCaser = cases.Lower(language.Und)

// NormalizeUsername returns the canonical stored form of a username: surrounding
// whitespace removed, NFC-composed, and lower-cased.
//
// Uniqueness is enforced by the store on this value, which makes usernames
// case-insensitive ("Alice" and "alice" are the same account).
func NormalizeUsername(username string) string {
	trimmed := strings.TrimSpace(username)
	return usernameCaser.String(norm.NFC.String(trimmed))
}
