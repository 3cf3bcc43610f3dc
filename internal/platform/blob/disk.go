// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore implements [Store] on a local directory.
//
// The returned URLs are relative ("/media/<key>") and resolved by the file
// server mounted in internal/api.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates root if needed and returns a store serving under baseURL.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: failed to create %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Files exposes the stored objects for serving. Directories do not exist in
// it, so a file server on top cannot list keys.
func (store *DiskStore) Files() fs.FS {
	return filesOnly{fsys: os.DirFS(store.root)}
}

// Put writes body to <root>/<key>.
func (store *DiskStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	path, err := store.pathFor(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("disk_blob_put_failed: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("disk_blob_put_failed: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("disk_blob_put_failed: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("disk_blob_put_failed: %w", err)
	}

	return store.baseURL + "/" + key, nil
}

// Delete removes the file behind url.
func (store *DiskStore) Delete(ctx context.Context, url string) error {
	key, found := strings.CutPrefix(url, store.baseURL+"/")
	if !found {
		return ErrNotFound
	}

	path, err := store.pathFor(key)
	if err != nil {
		return ErrNotFound
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("disk_blob_delete_failed: %w", err)
	}

	return nil
}

// pathFor maps key into root, rejecting keys that would escape it.
func (store *DiskStore) pathFor(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("blob: invalid key %q", key)
	}
	return filepath.Join(store.root, filepath.FromSlash(key)), nil
}

// filesOnly hides every directory of fsys.
type filesOnly struct {
	fsys fs.FS
}

func (files filesOnly) Open(name string) (fs.File, error) {
	file, err := files.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	if info.IsDir() {
		_ = file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return file, nil
}
