// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the security primitives used by the identity layer:
// password hashing, session token generation, and username normalization.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. Everything
// here is a pure computation with no shared state, so it is safe for concurrent use.
package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// # Key Derivation Parameters

// These values are shared by [HashPassword] and [CheckPasswordHash]. Changing any
// of them invalidates every stored hash.
const (
	// PasswordIterations is the PBKDF2 round count.
	PasswordIterations = 100_000

	// PasswordKeyLength is the derived key size in bytes (256 bits).
	PasswordKeyLength = 32

	// PasswordSaltLength is the random salt size in bytes.
	PasswordSaltLength = 16

	// hashSeparator splits the hex salt from the hex derived key.
	hashSeparator = ":"
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash of a plain-text password.
//
// The result has the form hex(salt) + ":" + hex(derivedKey). Two calls with the
// same password produce different strings because each call draws a fresh salt.
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, PasswordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	derived := deriveKey(plainTextPassword, salt)

	return hex.EncodeToString(salt) + hashSeparator + hex.EncodeToString(derived), nil
}

// CheckPasswordHash reports whether plainTextPassword matches a hash produced by
// [HashPassword].
//
// Malformed stored values (missing separator, non-hex content, wrong key size)
// return false. Callers cannot tell a corrupt record from a wrong password.
func CheckPasswordHash(plainTextPassword, storedHash string) bool {
	saltHex, keyHex, found := strings.Cut(storedHash, hashSeparator)
	if !found {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != PasswordKeyLength {
		return false
	}

	derived := deriveKey(plainTextPassword, salt)

	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// deriveKey runs the iterated key derivation with the fixed parameters.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PasswordIterations, PasswordKeyLength, sha256.New)
}
