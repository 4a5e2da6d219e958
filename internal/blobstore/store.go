// Package blobstore keeps portrait and snapshot images out of the database.
// Keys are opaque slash-separated strings chosen by the services, e.g.
// "portraits/<uuid>.jpg".
package blobstore

import (
	"context"
	"fmt"
	"os"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
)

// ErrNotFound is returned when a blob does not exist. It maps to
// os.ErrNotExist so `errors.Is(err, ErrNotFound)` also holds for raw
// filesystem errors from the local driver.
var ErrNotFound = os.ErrNotExist

// Store reads and writes whole image blobs by key. Implementations must be
// safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
}

// New creates the blob store selected by BLOB_DRIVER.
func New(cfg *config.Config) (Store, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverLocal:
		return NewLocalStore(cfg.BlobLocalPath), nil

	case config.BlobDriverMinio:
		return NewMinioStore(MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})

	default:
		return nil, fmt.Errorf("unknown blob driver: %s (supported: %s, %s)",
			cfg.BlobDriver, config.BlobDriverLocal, config.BlobDriverMinio)
	}
}
