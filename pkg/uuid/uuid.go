// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to generate Version 7 values, which sort
by creation time and keep PostgreSQL B-tree indexes compact.

Users and memories take their primary keys from here.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// An error from the generator means the entropy source is broken, which is
// unrecoverable, so New panics.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
