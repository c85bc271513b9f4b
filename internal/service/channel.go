package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

// Channel answers the read-only profile and history queries.
type Channel struct {
	channels model.ChannelStore
	logger   *logger.Logger
}

func NewChannel(channels model.ChannelStore, logger *logger.Logger) *Channel {
	return &Channel{
		channels: channels,
		logger:   logger,
	}
}

func (c *Channel) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error) {
	username = model.NormalizeHandle(username)
	if username == "" {
		return model.ChannelProfile{}, model.NewErrFieldRequired("Username")
	}

	profile, err := c.channels.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ChannelProfile{}, model.NewErrChannelNotFound(username)
		}
		c.logger.Error("Channel service: failed to get channel profile",
			"username", username,
			"error", err.Error())
		return model.ChannelProfile{}, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return profile, nil
}

func (c *Channel) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	history, err := c.channels.GetWatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewErrUserNotFound()
		}
		c.logger.Error("Channel service: failed to get watch history",
			"user_id", userID.String(),
			"error", err.Error())
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}

	if history == nil {
		history = []model.WatchedVideo{}
	}

	return history, nil
}
