package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

// AuthService is a testify mock of the auth handler's service.
type AuthService struct {
	mock.Mock
}

// NewAuthService creates an AuthService mock whose expectations are asserted on cleanup.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Register(ctx context.Context, reg model.Registration) (model.PublicUser, error) {
	args := m.Called(ctx, reg)
	user, _ := args.Get(0).(model.PublicUser)
	return user, args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(model.Session)
	return session, args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(model.TokenPair)
	return pair, args.Error(1)
}

func (m *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) (model.PublicUser, error) {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	user, _ := args.Get(0).(model.PublicUser)
	return user, args.Error(1)
}

// Authenticate lets the same mock back the authentication middleware.
func (m *AuthService) Authenticate(ctx context.Context, accessToken string) (model.PublicUser, error) {
	args := m.Called(ctx, accessToken)
	user, _ := args.Get(0).(model.PublicUser)
	return user, args.Error(1)
}
