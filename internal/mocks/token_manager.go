package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.TokenManager = (*TokenManager)(nil)

// TokenManager is a testify mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (model.AccessClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(model.AccessClaims)
	return claims, args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
