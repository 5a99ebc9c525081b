// Package storage writes uploaded images to a blob backend.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"agrosite/internal/config"
)

// BlobWriter stores an object under key and returns the path or URL clients use to fetch it
type BlobWriter interface {
	Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
}

// New builds the writer selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (BlobWriter, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		return NewLocalWriter(cfg.LocalDir, cfg.PublicBaseURL)
	case config.StorageDriverS3:
		client, err := NewS3Client(ctx, S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Writer(client, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}

func publicPath(baseURL, key string) string {
	if baseURL == "" {
		return "/" + key
	}
	return strings.TrimRight(baseURL, "/") + "/" + key
}
