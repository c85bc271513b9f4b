// Package storage forwards staged uploads to an object store and hands back
// durable URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/model"
)

var (
	// ErrEmptyPath is returned when no staged file was given.
	ErrEmptyPath = errors.New("local path is empty")
	// ErrForeignURL is returned when asked to delete a URL this store did not issue.
	ErrForeignURL = errors.New("url does not belong to this store")
)

var _ model.BlobStore = (*Uploader)(nil)

// Uploader moves staged local files into a BlobBackend. The staged file is
// always removed once Upload returns.
type Uploader struct {
	backend model.BlobBackend
	baseURL string
}

// NewUploader creates an Uploader whose URLs are baseURL joined with the object key.
func NewUploader(backend model.BlobBackend, baseURL string) *Uploader {
	return &Uploader{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", ErrEmptyPath
	}
	defer func() { _ = RemoveStaged(localPath) }()

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat staged file: %w", err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind staged file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = mtype.Extension()
	}
	key := uuid.NewString() + ext

	if err := u.backend.Put(ctx, key, f, info.Size(), mtype.String()); err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}

	return u.baseURL + "/" + key, nil
}

func (u *Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	if !ok || key == "" {
		return ErrForeignURL
	}

	if err := u.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// RemoveStaged deletes a staged file. Missing files are ignored.
func RemoveStaged(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}
