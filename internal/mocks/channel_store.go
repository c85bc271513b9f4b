package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.ChannelStore = (*ChannelStore)(nil)

// ChannelStore is a testify mock of model.ChannelStore.
type ChannelStore struct {
	mock.Mock
}

func (m *ChannelStore) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	profile, _ := args.Get(0).(model.ChannelProfile)
	return profile, args.Error(1)
}

func (m *ChannelStore) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	args := m.Called(ctx, userID)
	history, _ := args.Get(0).([]model.WatchedVideo)
	return history, args.Error(1)
}
