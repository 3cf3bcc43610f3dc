// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wayfare/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hash verifies against its own password only.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	for _, password := range []string{"secret1", "pässwörd", " spaced out ", "x"} {
		stored, err := sec.HashPassword(password)
		require.NoError(t, err)

		assert.True(t, sec.CheckPasswordHash(password, stored), "password %q", password)
		assert.False(t, sec.CheckPasswordHash(password+"!", stored), "password %q", password)
	}
}

/*
TestHashPassword_Format verifies the salt:key hex layout and its sizes.
*/
func TestHashPassword_Format(t *testing.T) {
	stored, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	saltHex, keyHex, found := strings.Cut(stored, ":")
	require.True(t, found)

	salt, err := hex.DecodeString(saltHex)
	require.NoError(t, err)
	assert.Len(t, salt, sec.PasswordSaltLength)

	key, err := hex.DecodeString(keyHex)
	require.NoError(t, err)
	assert.Len(t, key, sec.PasswordKeyLength)
}

/*
TestHashPassword_FreshSalt verifies that hashing twice yields distinct strings
that both verify.
*/
func TestHashPassword_FreshSalt(t *testing.T) {
	first, err := sec.HashPassword("secret1")
	require.NoError(t, err)
	second, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("secret1", first))
	assert.True(t, sec.CheckPasswordHash("secret1", second))
}

/*
TestCheckPasswordHash_Malformed verifies that corrupt records fail closed.
*/
func TestCheckPasswordHash_Malformed(t *testing.T) {
	valid, err := sec.HashPassword("secret1")
	require.NoError(t, err)
	saltHex, keyHex, _ := strings.Cut(valid, ":")

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no_separator", saltHex + keyHex},
		{"non_hex_salt", "zz" + saltHex[2:] + ":" + keyHex},
		{"non_hex_key", saltHex + ":" + "zz" + keyHex[2:]},
		{"empty_salt", ":" + keyHex},
		{"truncated_key", saltHex + ":" + keyHex[:10]},
		{"bcrypt_style", "$2a$10$abcdefghijklmnopqrstuv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, sec.CheckPasswordHash("secret1", tt.stored))
			})
		})
	}
}

/*
TestGenerateSecureToken verifies length, alphabet, and uniqueness of tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)
		require.Len(t, token, 64)

		_, err = hex.DecodeString(token)
		require.NoError(t, err)

		_, duplicate := seen[token]
		require.False(t, duplicate)
		seen[token] = struct{}{}
	}
}

/*
TestNormalizeUsername verifies trimming and case folding.
*/
func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alice", "alice"},
		{"  Alice ", "alice"},
		{"BOB", "bob"},
		{"Zélie", "zélie"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sec.NormalizeUsername(tt.input))
	}
}
