package storage

import (
	"context"

	"github.com/imagio/imagio/media/domain"
)

// Store is a key/value byte store. The service owns two instances, one
// for durable originals and one for the disposable derivative cache;
// both are safe for concurrent use and immutable after construction.
type Store interface {
	// Read returns the bytes at key, or domain.ErrNotFound if absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write creates or overwrites the bytes at key.
	Write(ctx context.Context, key string, data []byte) error

	// Exists reports whether key is present. Absence is a normal false,
	// not an error.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes key, returning domain.ErrNotFound if it was absent.
	Delete(ctx context.Context, key string) error
}

// Backend selects a Store implementation.
type Backend string

const (
	BackendFilesystem Backend = "filesystem"
	BackendS3         Backend = "s3"
)

// Config holds the parameters for one Store instance.
type Config struct {
	Backend Backend

	// Filesystem
	Root string

	// S3-compatible
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// New builds a Store from config. Invalid configuration is a
// domain.ErrConfig failure and should abort startup.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFilesystem:
		return NewFilesystemStore(cfg.Root)
	case BackendS3:
		return NewS3Store(cfg)
	default:
		return nil, domain.ConfigErrorf("unknown storage backend %q", cfg.Backend)
	}
}
