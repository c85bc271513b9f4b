// Package handler implements the HTTP endpoints of the users API.
package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/api/http/response"
	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

// AuthService defines the session lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, reg model.Registration) (model.PublicUser, error)
	Login(ctx context.Context, req model.LoginRequest) (model.Session, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (model.PublicUser, error)
}

// AccountService defines profile and image updates of the signed-in user.
type AccountService interface {
	UpdateAccount(ctx context.Context, userID uuid.UUID, profile model.Profile) (model.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error)
}

// ChannelService defines the channel page and watch history queries.
type ChannelService interface {
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error)
}

// Options tune request parsing and cookie attributes.
type Options struct {
	MaxUploadBytes int64
	UploadTempDir  string
	CookieSecure   bool
}

func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	response.Error(w, logger.FromContext(r.Context(), log), err)
}

func respondSuccess(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, data any, message string) {
	response.Success(w, logger.FromContext(r.Context(), log), status, data, message)
}

// currentUser returns the principal attached by the authentication middleware.
func currentUser(ctx context.Context, cm model.ContextManager) (model.PublicUser, error) {
	user, ok := cm.GetUserFromContext(ctx)
	if !ok || user.ID == uuid.Nil {
		return model.PublicUser{}, model.NewErrUnauthorized("Unauthorized request")
	}
	return user, nil
}
