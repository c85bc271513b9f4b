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

// Auth drives the session lifecycle: register, login, refresh, logout and
// password changes.
type Auth struct {
	users        model.UserStore
	credentials  *Credentials
	tokenService *TokenService
	media        media
	logger       *logger.Logger
}

func NewAuth(
	users model.UserStore,
	credentials *Credentials,
	tokenService *TokenService,
	blobs model.BlobStore,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:        users,
		credentials:  credentials,
		tokenService: tokenService,
		media:        media{blobs: blobs, logger: logger},
		logger:       logger,
	}
}

type requiredField struct {
	name  string
	value string
}

// requireFields fails with a ValidationError naming the first blank field.
func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return model.NewErrFieldRequired(f.name)
		}
	}
	return nil
}

func (a *Auth) Register(ctx context.Context, reg model.Registration) (_ model.PublicUser, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpRegister, err) }()

	profile := reg.Profile.Normalize()
	a.logger.Debug("Auth service: starting user registration",
		"username", profile.Username)

	err = requireFields(
		requiredField{"Full name", profile.Fullname},
		requiredField{"Username", profile.Username},
		requiredField{"Password", reg.Password},
		requiredField{"Email", profile.Email},
	)
	if err != nil {
		return model.PublicUser{}, err
	}

	_, err = a.users.FindByUsernameOrEmail(ctx, profile.Username, profile.Email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: user already exists",
			"username", profile.Username)
		return model.PublicUser{}, model.NewErrUserAlreadyExists()
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to check existing user",
			"username", profile.Username,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	if reg.AvatarPath == "" {
		return model.PublicUser{}, model.NewErrValidation("Avatar file is required")
	}

	avatarURL, err := a.media.upload(ctx, mediaAvatar, reg.AvatarPath)
	if err != nil {
		return model.PublicUser{}, err
	}

	var coverURL string
	if reg.CoverImagePath != "" {
		coverURL, err = a.media.upload(ctx, mediaCoverImage, reg.CoverImagePath)
		if err != nil {
			a.media.discard(ctx, avatarURL)
			return model.PublicUser{}, err
		}
	}

	created, err := a.credentials.Create(ctx, model.NewUser{
		Profile:       profile,
		Password:      reg.Password,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", profile.Username,
			"error", err.Error())
		a.media.discard(ctx, avatarURL, coverURL)
		return model.PublicUser{}, err
	}

	user, err := a.users.GetByID(ctx, created.ID)
	if err != nil {
		a.logger.Error("Auth service: created user not readable",
			"user_id", created.ID.String(),
			"error", err.Error())
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewErrInternal("Something went wrong while registering the user")
		}
		return model.PublicUser{}, fmt.Errorf("failed to read created user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID.String(),
		"username", user.Username)

	return user.Public(), nil
}

func (a *Auth) Login(ctx context.Context, req model.LoginRequest) (_ model.Session, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpLogin, err) }()

	username := model.NormalizeHandle(req.Username)
	email := model.NormalizeHandle(req.Email)
	if username == "" && email == "" {
		return model.Session{}, model.NewErrValidation("Username or email is required")
	}

	user, err := a.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.NewErrUserNotFound()
		}
		a.logger.Error("Auth service: failed to find user",
			"username", username,
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to find user: %w", err)
	}

	if !a.credentials.Verify(user, req.Password) {
		a.logger.Info("Auth service: incorrect password",
			"user_id", user.ID.String())
		return model.Session{}, model.NewErrInvalidCredentials()
	}

	pair, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID.String(),
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID.String())

	return model.Session{User: user.Public(), TokenPair: pair}, nil
}

// Logout revokes the user's refresh token. It is idempotent.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { metrics.ObserveOperation(metrics.OpLogout, err) }()

	if err := a.tokenService.Revoke(ctx, userID); err != nil {
		a.logger.Error("Auth service: failed to revoke refresh token",
			"user_id", userID.String(),
			"error", err.Error())
		return fmt.Errorf("failed to log out: %w", err)
	}

	return nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (_ model.TokenPair, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpRefresh, err) }()

	pair, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	return pair, nil
}

func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (_ model.PublicUser, err error) {
	defer func() { metrics.ObserveOperation(metrics.OpChangePassword, err) }()

	if err := requireFields(requiredField{"New password", newPassword}); err != nil {
		return model.PublicUser{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewErrUserNotFound()
		}
		return model.PublicUser{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !a.credentials.Verify(user, oldPassword) {
		a.logger.Info("Auth service: incorrect old password",
			"user_id", userID.String())
		return model.PublicUser{}, model.NewErrIncorrectOldPassword()
	}

	updated, err := a.credentials.SetPassword(ctx, userID, newPassword)
	if err != nil {
		return model.PublicUser{}, err
	}

	a.logger.Info("Auth service: password changed",
		"user_id", userID.String())

	return updated.Public(), nil
}

// Authenticate resolves an access token to the user it was issued for.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (model.PublicUser, error) {
	userID, err := a.tokenService.Authenticate(accessToken)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewErrUnauthorized("Invalid access token")
		}
		return model.PublicUser{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Public(), nil
}
