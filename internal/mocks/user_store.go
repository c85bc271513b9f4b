package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

// UserStore is a testify mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) userResult(args mock.Arguments) (model.User, error) {
	user, _ := args.Get(0).(model.User)
	return user, args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	return m.userResult(m.Called(ctx, user))
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	return m.userResult(m.Called(ctx, username, email))
}

func (m *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (model.User, error) {
	return m.userResult(m.Called(ctx, id, passwordHash))
}

func (m *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile) (model.User, error) {
	return m.userResult(m.Called(ctx, id, profile))
}

func (m *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (model.User, error) {
	return m.userResult(m.Called(ctx, id, avatarURL))
}

func (m *UserStore) UpdateCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (model.User, error) {
	return m.userResult(m.Called(ctx, id, coverImageURL))
}

func (m *UserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *UserStore) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}
