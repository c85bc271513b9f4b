package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/model"
	"github.com/dtroode/vidtube-server/internal/password"
)

// Credentials owns everything that touches password hashes. A password is
// hashed exactly once, on the way into the store, and only when it changes.
type Credentials struct {
	users  model.UserStore
	hasher model.PasswordHasher
}

func NewCredentials(users model.UserStore, hasher model.PasswordHasher) *Credentials {
	return &Credentials{
		users:  users,
		hasher: hasher,
	}
}

func (c *Credentials) hash(plaintext string) (string, error) {
	hash, err := c.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return "", model.NewErrValidation("Password must be at most %d bytes", password.MaxLength)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Create hashes the password and persists a new user.
func (c *Credentials) Create(ctx context.Context, nu model.NewUser) (model.User, error) {
	hash, err := c.hash(nu.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := c.users.Create(ctx, model.User{
		ID:            uuid.New(),
		Username:      nu.Username,
		Email:         nu.Email,
		Fullname:      nu.Fullname,
		PasswordHash:  hash,
		AvatarURL:     nu.AvatarURL,
		CoverImageURL: nu.CoverImageURL,
		WatchHistory:  []uuid.UUID{},
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.User{}, model.NewErrUserAlreadyExists()
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Verify reports whether plaintext matches the user's stored hash.
func (c *Credentials) Verify(user model.User, plaintext string) bool {
	if user.PasswordHash == "" {
		return false
	}
	return c.hasher.Verify(plaintext, user.PasswordHash)
}

// SetPassword re-hashes and stores a new password for the user.
func (c *Credentials) SetPassword(ctx context.Context, userID uuid.UUID, plaintext string) (model.User, error) {
	hash, err := c.hash(plaintext)
	if err != nil {
		return model.User{}, err
	}

	user, err := c.users.UpdatePasswordHash(ctx, userID, hash)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.NewErrUserNotFound()
		}
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}
