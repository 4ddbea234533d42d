// Package storage keeps uploaded torque measurements and generated reports in
// S3 compatible object storage.
package storage

import (
	"context"
	"fmt"
)

// New returns the store for the configured backend ("s3" or "minio")
func New(ctx context.Context, backend string, cfg S3Config) (ObjectStore, error) {
	switch backend {
	case "", "s3":
		return NewS3Service(cfg)
	case "minio":
		return NewMinioService(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}
