package service

import (
	"context"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/metrics"
	"github.com/dtroode/vidtube-server/internal/model"
)

// Media kinds, used in upload errors and metrics.
const (
	mediaAvatar     = "avatar"
	mediaCoverImage = "cover image"
)

// media forwards staged files to the blob store and cleans up blobs that
// end up unreferenced.
type media struct {
	blobs  model.BlobStore
	logger *logger.Logger
}

func (m media) upload(ctx context.Context, kind, localPath string) (string, error) {
	url, err := m.blobs.Upload(ctx, localPath)
	if err != nil {
		m.logger.Error("Media: failed to upload file",
			"kind", kind,
			"error", err.Error())
		uploadErr := model.NewErrUpload(kind)
		metrics.ObserveUpload(kind, uploadErr)
		return "", uploadErr
	}

	metrics.ObserveUpload(kind, nil)
	return url, nil
}

// discard deletes blobs that are no longer referenced. Failures are logged
// and otherwise ignored.
func (m media) discard(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := m.blobs.Delete(ctx, url); err != nil {
			m.logger.Warn("Media: failed to delete orphaned blob",
				"url", url,
				"error", err.Error())
		}
	}
}
