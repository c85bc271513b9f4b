package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

var (
	_ model.BlobStore   = (*BlobStore)(nil)
	_ model.BlobBackend = (*BlobBackend)(nil)
)

// BlobStore is a testify mock of model.BlobStore.
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

// BlobBackend is a testify mock of model.BlobBackend.
type BlobBackend struct {
	mock.Mock
}

func (m *BlobBackend) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *BlobBackend) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
