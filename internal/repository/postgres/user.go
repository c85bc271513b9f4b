package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, email, fullname, password_hash, avatar_url, cover_image_url,
	watch_history, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.PasswordHash,
		&user.AvatarURL, &user.CoverImageURL, &user.WatchHistory, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// getOne runs a single-row user query and maps the pgx errors onto model errors.
func (r *UserRepository) getOne(ctx context.Context, op, query string, args ...any) (model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to %s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, email, fullname, password_hash, avatar_url, cover_image_url, watch_history)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + userColumns

	history := user.WatchHistory
	if history == nil {
		history = []uuid.UUID{}
	}

	return r.getOne(ctx, "create user", query,
		user.ID, user.Username, user.Email, user.Fullname, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL, history,
	)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.getOne(ctx, "get user by id", query, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return r.getOne(ctx, "get user by username", query, username)
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	if username == "" && email == "" {
		return model.User{}, model.ErrNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
			  ORDER BY created_at
			  LIMIT 1`

	return r.getOne(ctx, "find user by username or email", query, username, email)
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (model.User, error) {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	return r.getOne(ctx, "update password", query, id, passwordHash)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.Profile) (model.User, error) {
	query := `UPDATE users SET username = $2, email = $3, fullname = $4, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	return r.getOne(ctx, "update profile", query, id, profile.Username, profile.Email, profile.Fullname)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (model.User, error) {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	return r.getOne(ctx, "update avatar", query, id, avatarURL)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (model.User, error) {
	query := `UPDATE users SET cover_image_url = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	return r.getOne(ctx, "update cover image", query, id, coverImageURL)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	query := `UPDATE users SET refresh_token = $3
			  WHERE id = $1 AND refresh_token = $2 AND refresh_token <> ''`

	tag, err := r.db.Exec(ctx, query, id, current, next)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
