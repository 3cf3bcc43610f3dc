// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wayfare/internal/platform/blob"
)

// # Disk

func TestDiskStore_PutDelete(t *testing.T) {
	root := t.TempDir()
	store, err := blob.NewDiskStore(root, "/media")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "wayfare/abc.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/media/wayfare/abc.jpg", url)

	content, err := os.ReadFile(filepath.Join(root, "wayfare", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	require.NoError(t, store.Delete(context.Background(), url))
	assert.ErrorIs(t, store.Delete(context.Background(), url), blob.ErrNotFound)
}

/*
TestDiskStore_FilesHidesDirectories verifies objects open by key while directories do not exist.
*/
func TestDiskStore_FilesHidesDirectories(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "wayfare/abc.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)

	content, err := fs.ReadFile(store.Files(), "wayfare/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	for _, name := range []string{".", "wayfare"} {
		_, err := store.Files().Open(name)
		assert.ErrorIs(t, err, fs.ErrNotExist, name)
	}
}

func TestDiskStore_RejectsEscapingKeys(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.Error(t, err)

	assert.ErrorIs(t, store.Delete(context.Background(), "https://elsewhere/x.jpg"), blob.ErrNotFound)
}

// # S3

type fakeObjectAPI struct {
	puts      []*s3.PutObjectInput
	deletes   []*s3.DeleteObjectInput
	deleteErr error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

func TestS3Store_PutDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	store := blob.NewS3Store(api, blob.S3Options{Bucket: "photos", PublicURL: "https://cdn.example.com/"})

	url, err := store.Put(context.Background(), "wayfare/abc.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/wayfare/abc.png", url)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "photos", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "wayfare/abc.png", aws.ToString(api.puts[0].Key))
	assert.Equal(t, int64(3), aws.ToInt64(api.puts[0].ContentLength))

	require.NoError(t, store.Delete(context.Background(), url))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, "wayfare/abc.png", aws.ToString(api.deletes[0].Key))
}

func TestS3Store_DeleteMapsMissingObjects(t *testing.T) {
	api := &fakeObjectAPI{deleteErr: &types.NoSuchKey{}}
	store := blob.NewS3Store(api, blob.S3Options{Bucket: "photos", Endpoint: "http://minio:9000"})

	err := store.Delete(context.Background(), "http://minio:9000/photos/wayfare/x.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)

	err = store.Delete(context.Background(), "https://unrelated/x.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)

	api.deleteErr = errors.New("timeout")
	err = store.Delete(context.Background(), "http://minio:9000/photos/wayfare/x.jpg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, blob.ErrNotFound)
}
