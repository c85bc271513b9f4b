package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/metrics"
	"github.com/dtroode/vidtube-server/internal/model"
)

// Account edits an authenticated user's profile and images.
type Account struct {
	users  model.UserStore
	media  media
	logger *logger.Logger
}

func NewAccount(users model.UserStore, blobs model.BlobStore, logger *logger.Logger) *Account {
	return &Account{
		users:  users,
		media:  media{blobs: blobs, logger: logger},
		logger: logger,
	}
}

func (a *Account) UpdateAccount(ctx context.Context, userID uuid.UUID, profile model.Profile) (_ model.PublicUser, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpUpdateAccount, err) }()

	profile = profile.Normalize()
	err = requireFields(
		requiredField{"Full name", profile.Fullname},
		requiredField{"Username", profile.Username},
		requiredField{"Email", profile.Email},
	)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := a.users.UpdateProfile(ctx, userID, profile)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicate):
			return model.PublicUser{}, model.NewErrUserAlreadyExists()
		case errors.Is(err, model.ErrNotFound):
			return model.PublicUser{}, model.NewErrUserNotFound()
		}
		a.logger.Error("Account service: failed to update profile",
			"user_id", userID.String(),
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return user.Public(), nil
}

func (a *Account) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (_ model.PublicUser, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpUpdateAvatar, err) }()

	return a.replaceImage(ctx, userID, localPath, mediaAvatar,
		func(u model.User) string { return u.AvatarURL },
		a.users.UpdateAvatar,
	)
}

func (a *Account) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (_ model.PublicUser, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpUpdateCover, err) }()

	return a.replaceImage(ctx, userID, localPath, mediaCoverImage,
		func(u model.User) string { return u.CoverImageURL },
		a.users.UpdateCoverImage,
	)
}

// replaceImage uploads a new image, points the user at it and deletes the
// image it replaced.
func (a *Account) replaceImage(
	ctx context.Context,
	userID uuid.UUID,
	localPath string,
	kind string,
	current func(model.User) string,
	store func(context.Context, uuid.UUID, string) (model.User, error),
) (model.PublicUser, error) {
	if localPath == "" {
		return model.PublicUser{}, model.NewErrValidation("%s%s file is missing", strings.ToUpper(kind[:1]), kind[1:])
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewErrUserNotFound()
		}
		return model.PublicUser{}, fmt.Errorf("failed to get user: %w", err)
	}
	previous := current(user)

	url, err := a.media.upload(ctx, kind, localPath)
	if err != nil {
		return model.PublicUser{}, err
	}

	updated, err := store(ctx, userID, url)
	if err != nil {
		a.media.discard(ctx, url)
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewErrUserNotFound()
		}
		a.logger.Error("Account service: failed to store image",
			"user_id", userID.String(),
			"kind", kind,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to update %s: %w", kind, err)
	}

	if previous != url {
		a.media.discard(ctx, previous)
	}

	return updated.Public(), nil
}
