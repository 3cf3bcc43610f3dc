// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores uploaded image bytes outside the relational store.

Objects are written under a caller-chosen key and addressed afterwards only
by the public URL the store returned. Two backends exist:

  - S3Store: any S3-compatible service (AWS, MinIO, Cloudflare R2).
  - DiskStore: a local directory served by the API under /media.
*/
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Delete when no object exists for the URL.
// Callers removing a memory treat it as success.
var ErrNotFound = errors.New("blob: object not found")

// Store is the blob store collaborator used by the memories service.
type Store interface {
	// Put writes body under key and returns the public URL of the object.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object addressed by url.
	Delete(ctx context.Context, url string) error
}
