package model

import (
	"context"
	"io"
)

// BlobBackend is an object store that keeps uploaded media.
type BlobBackend interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// BlobStore accepts a staged local file and returns a durable URL for it.
type BlobStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, url string) error
}
