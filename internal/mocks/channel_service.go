package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

// ChannelService is a testify mock of the channel handler's service.
type ChannelService struct {
	mock.Mock
}

// NewChannelService creates a ChannelService mock whose expectations are asserted on cleanup.
func NewChannelService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ChannelService {
	m := &ChannelService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ChannelService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	profile, _ := args.Get(0).(model.ChannelProfile)
	return profile, args.Error(1)
}

func (m *ChannelService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	args := m.Called(ctx, userID)
	history, _ := args.Get(0).([]model.WatchedVideo)
	return history, args.Error(1)
}
