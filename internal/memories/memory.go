// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memories implements the photo journal: dated images with an optional
note, shown either on the travel timeline or in the static gallery.

Every operation is scoped to the signed-in owner. Rows written before accounts
existed carry an empty owner and are visible to nobody.
*/
package memories

import (
	"errors"
	"time"
)

// # Domain Entities

// Mode selects where a memory is displayed.
type Mode string

const (
	ModeTravel Mode = "travel"
	ModeStatic Mode = "static"
)

// Memory is a single dated photo.
type Memory struct {
	ID       string `json:"id"`
	UserID   string `json:"-"`
	ImageURL string `json:"image_url"`

	// AssignedDate is a calendar day in YYYY-MM-DD form.
	AssignedDate string    `json:"assigned_date"`
	Message      *string   `json:"message,omitempty"`
	ModeType     Mode      `json:"mode_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrMemoryNotFound is returned by [Repository] lookups that match nothing.
var ErrMemoryNotFound = errors.New("memories: not found")

// # Field Identifiers

const (
	FieldImage        = "image"
	FieldAssignedDate = "assigned_date"
	FieldMessage      = "message"
	FieldModeType     = "mode_type"
)

// blobKeyPrefix namespaces uploaded images inside the blob store.
const blobKeyPrefix = "wayfare/"
