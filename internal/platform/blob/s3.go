// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the part of [s3.Client] the store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures an S3-compatible backend.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string

	// PublicURL is the base under which objects are publicly readable.
	// Defaults to "<Endpoint>/<Bucket>".
	PublicURL string
}

// S3Store implements [Store] on top of an S3 bucket.
type S3Store struct {
	client    ObjectAPI
	bucket    string
	publicURL string
}

// NewS3Client builds an S3 client from static credentials and an optional
// custom endpoint. Path-style addressing is enabled whenever an endpoint is
// set, which MinIO requires.
func NewS3Client(ctx context.Context, options S3Options) (*s3.Client, error) {
	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(options.Region),
	}
	if options.AccessKeyID != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKeyID, options.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// NewS3Store wraps client for the configured bucket.
func NewS3Store(client ObjectAPI, options S3Options) *S3Store {
	publicURL := options.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimSuffix(options.Endpoint, "/") + "/" + options.Bucket
	}

	return &S3Store{
		client:    client,
		bucket:    options.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Put uploads body and returns its public URL.
func (store *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := store.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3_blob_put_failed: %w", err)
	}

	return store.publicURL + "/" + key, nil
}

// Delete removes the object behind url. URLs outside this bucket's public
// base are reported as [ErrNotFound].
func (store *S3Store) Delete(ctx context.Context, url string) error {
	key, found := strings.CutPrefix(url, store.publicURL+"/")
	if !found || key == "" {
		return ErrNotFound
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return ErrNotFound
		}
		return fmt.Errorf("s3_blob_delete_failed: %w", err)
	}

	return nil
}
