package blob

import (
	"context"
	"fmt"

	"ocmhub/internal/infra/blob/fs"
	"ocmhub/internal/infra/blob/memory"
	"ocmhub/internal/infra/blob/s3"
)

// S3Config re-exports the S3 backend settings.
type S3Config = s3.Config

// Config selects a backend. Driver defaults to fs rooted at ./archive.
type Config struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Open constructs the configured blob.Store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed store rooted at root.
func NewFilesystem(root string) (Store, error) {
	s, err := fs.New(root)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return memory.New() }

// NewS3 constructs an S3-backed store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	s, err := s3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewMockS3ForTests exposes the offline S3 fake for cross-package tests.
func NewMockS3ForTests() Store { return s3.NewMockForTests() }
