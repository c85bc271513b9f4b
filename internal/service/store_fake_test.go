package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/model"
)

// memUserStore is an in-memory model.UserStore with the same uniqueness and
// compare-and-swap semantics as the Postgres repository.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return model.User{}, model.ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) FindByUsernameOrEmail(_ context.Context, username, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) update(id uuid.UUID, fn func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) (model.User, error) {
	return s.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (s *memUserStore) UpdateProfile(_ context.Context, id uuid.UUID, p model.Profile) (model.User, error) {
	return s.update(id, func(u *model.User) {
		u.Username, u.Email, u.Fullname = p.Username, p.Email, p.Fullname
	})
}

func (s *memUserStore) UpdateAvatar(_ context.Context, id uuid.UUID, url string) (model.User, error) {
	return s.update(id, func(u *model.User) { u.AvatarURL = url })
}

func (s *memUserStore) UpdateCoverImage(_ context.Context, id uuid.UUID, url string) (model.User, error) {
	return s.update(id, func(u *model.User) { u.CoverImageURL = url })
}

func (s *memUserStore) SetRefreshToken(_ context.Context, id uuid.UUID, token string) error {
	_, err := s.update(id, func(u *model.User) { u.RefreshToken = token })
	return err
}

func (s *memUserStore) SwapRefreshToken(_ context.Context, id uuid.UUID, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RefreshToken == "" || u.RefreshToken != current {
		return model.ErrNotFound
	}
	u.RefreshToken = next
	s.users[id] = u
	return nil
}
