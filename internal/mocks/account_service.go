package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

// AccountService is a testify mock of the account handler's service.
type AccountService struct {
	mock.Mock
}

// NewAccountService creates an AccountService mock whose expectations are asserted on cleanup.
func NewAccountService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountService {
	m := &AccountService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountService) publicResult(args mock.Arguments) (model.PublicUser, error) {
	user, _ := args.Get(0).(model.PublicUser)
	return user, args.Error(1)
}

func (m *AccountService) UpdateAccount(ctx context.Context, userID uuid.UUID, profile model.Profile) (model.PublicUser, error) {
	return m.publicResult(m.Called(ctx, userID, profile))
}

func (m *AccountService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	return m.publicResult(m.Called(ctx, userID, localPath))
}

func (m *AccountService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	return m.publicResult(m.Called(ctx, userID, localPath))
}
