package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pantrypal"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Open builds the backend named by cfg.Backend. The returned close function releases any
// connection the backend holds and is always non-nil.
func Open(ctx context.Context, cfg pantrypal.StorageConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case BackendMemory:
		slog.Info("STORAGE: Using in-memory slots; nothing will survive a restart")
		return NewMemoryStore(), noop, nil

	case BackendFile, "":
		slog.Info("STORAGE: Using file slots", "dir", cfg.FileDir)
		return NewFileStore(cfg.FileDir), noop, nil

	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, noop, fmt.Errorf("missing S3 config: STORAGE_S3_BUCKET must be set")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load AWS config: %w", err)
		}
		slog.Info("STORAGE: Using S3 slots", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), noop, nil

	case BackendPostgres, BackendSQLite:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("missing database config: DATABASE_URL must be set")
		}
		driver := DriverPostgres
		if backend == BackendSQLite {
			driver = DriverSQLite
		}
		s, err := NewSQLStore(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("STORAGE: Using SQL slots", "driver", driver)
		return s, s.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
