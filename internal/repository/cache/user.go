// Package cache decorates stores with an in-memory expiring LRU.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

// UserStore caches lookups by id in front of another UserStore. Every write
// through it evicts the written user. Writes made by other processes are
// visible once the entry expires.
type UserStore struct {
	next model.UserStore
	lru  *expirable.LRU[uuid.UUID, model.User]
}

// NewUserStore wraps next with a cache holding at most size users for ttl.
func NewUserStore(next model.UserStore, size int, ttl time.Duration) *UserStore {
	return &UserStore{
		next: next,
		lru:  expirable.NewLRU[uuid.UUID, model.User](size, nil, ttl),
	}
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if user, ok := s.lru.Get(id); ok {
		return user, nil
	}

	user, err := s.next.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	s.lru.Add(id, user)

	return user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return s.next.GetByUsername(ctx, username)
}

func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	return s.next.FindByUsernameOrEmail(ctx, username, email)
}

func (s *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	return s.next.Create(ctx, user)
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (model.User, error) {
	user, err := s.next.UpdatePasswordHash(ctx, id, passwordHash)
	return s.store(id, user, err)
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile) (model.User, error) {
	user, err := s.next.UpdateProfile(ctx, id, profile)
	return s.store(id, user, err)
}

func (s *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (model.User, error) {
	user, err := s.next.UpdateAvatar(ctx, id, avatarURL)
	return s.store(id, user, err)
}

func (s *UserStore) UpdateCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (model.User, error) {
	user, err := s.next.UpdateCoverImage(ctx, id, coverImageURL)
	return s.store(id, user, err)
}

func (s *UserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	s.lru.Remove(id)
	return s.next.SetRefreshToken(ctx, id, token)
}

func (s *UserStore) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	s.lru.Remove(id)
	return s.next.SwapRefreshToken(ctx, id, current, next)
}

// Invalidate drops the cached entry for id.
func (s *UserStore) Invalidate(id uuid.UUID) {
	s.lru.Remove(id)
}

// Len reports the number of cached users.
func (s *UserStore) Len() int {
	return s.lru.Len()
}

// store evicts id and, when the write succeeded, caches the row it returned.
func (s *UserStore) store(id uuid.UUID, user model.User, err error) (model.User, error) {
	s.lru.Remove(id)
	if err != nil {
		return model.User{}, err
	}
	s.lru.Add(id, user)

	return user, nil
}
