// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first (if present) so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Blob) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Blob storage backends.
const (
	BlobBackendDisk = "disk"
	BlobBackendS3   = "s3"
)

// MaxSessionCacheTTL caps SESSION_CACHE_TTL. A session whose cache entry failed
// to evict on logout stays usable for at most this long.
const MaxSessionCacheTTL = 5 * time.Minute

// # Configuration Schema

// Config holds all runtime configuration for the Wayfare server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Key-Value Cache (Redis). Optional: when empty, session lookups always hit PostgreSQL.
	RedisURL        string        `env:"REDIS_URL"`
	SessionCacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"5m"`

	// SessionSweepInterval enables a periodic purge of expired sessions.
	// Zero leaves expiry cleanup entirely to the validation path.
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"0"`

	// Object Storage
	BlobBackend string `env:"BLOB_BACKEND" envDefault:"disk"`
	BlobDir     string `env:"BLOB_DIR"     envDefault:"./data/blobs"`

	// S3-compatible storage (AWS, MinIO, Cloudflare R2)
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicURL       string `env:"S3_PUBLIC_URL"`

	// MaxUploadBytes bounds the multipart body of a memory upload.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Cross-Origin Resource Sharing
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field constraints that struct tags cannot express.
func (c *Config) validate() error {
	switch c.BlobBackend {
	case BlobBackendDisk:
	case BlobBackendS3:
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required when BLOB_BACKEND=s3")
		}
	default:
		return fmt.Errorf("config: unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.SessionCacheTTL <= 0 || c.SessionCacheTTL > MaxSessionCacheTTL {
		return fmt.Errorf("config: SESSION_CACHE_TTL must be positive and at most %s", MaxSessionCacheTTL)
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
// Session cookies carry the Secure attribute only in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured extra CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
