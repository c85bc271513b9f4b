package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager with the refresh token
// slot kept on each user record.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, users: users, logger: logger}
}

func (s *TokenService) pair(user model.User) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Issue creates a fresh pair and makes its refresh token the only valid one
// for the user.
func (s *TokenService) Issue(ctx context.Context, user model.User) (model.TokenPair, error) {
	pair, err := s.pair(user)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return pair, nil
}

// Refresh rotates a presented refresh token. The token must verify and must
// still be the one stored for its user; the stored value is swapped only if
// nobody rotated it in the meantime.
func (s *TokenService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	if presented == "" {
		return model.TokenPair{}, model.NewErrFieldRequired("Refresh token")
	}

	userID, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected", "error", err.Error())
		return model.TokenPair{}, model.NewErrUnauthorized("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, model.NewErrUnauthorized("Invalid refresh token")
		}
		return model.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !sameToken(user.RefreshToken, presented) {
		s.logger.Info("Token service: superseded refresh token presented",
			"user_id", userID.String())
		return model.TokenPair{}, model.NewErrRefreshTokenExpired()
	}

	pair, err := s.pair(user)
	if err != nil {
		return model.TokenPair{}, err
	}

	err = s.users.SwapRefreshToken(ctx, userID, presented, pair.RefreshToken)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Token service: lost refresh rotation race",
				"user_id", userID.String())
			return model.TokenPair{}, model.NewErrRefreshTokenExpired()
		}
		return model.TokenPair{}, fmt.Errorf("rotate refresh: %w", err)
	}

	return pair, nil
}

// Revoke clears the user's stored refresh token. Revoking twice is fine.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	err := s.users.SetRefreshToken(ctx, userID, "")
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("revoke refresh: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and returns the user id it names.
func (s *TokenService) Authenticate(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, model.NewErrUnauthorized("Unauthorized request")
	}

	claims, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, model.NewErrUnauthorized("Invalid access token")
	}

	return claims.UserID, nil
}

func sameToken(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
