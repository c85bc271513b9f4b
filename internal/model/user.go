package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// FindByUsernameOrEmail returns the first user whose username or email matches.
	// Empty arguments never match.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile Profile) (User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (User, error)
	// SetRefreshToken overwrites the stored refresh token unconditionally.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	// SwapRefreshToken replaces the stored refresh token only if it still equals current.
	// It returns ErrNotFound when the stored value has already moved on.
	SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error
}

// User is the full stored user record, including secrets.
type User struct {
	ID            uuid.UUID
	Username      string
	Email         string
	Fullname      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	WatchHistory  []uuid.UUID
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the API-facing view of a user. It never carries the password
// hash or the refresh token.
type PublicUser struct {
	ID           uuid.UUID   `json:"_id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Fullname     string      `json:"fullname"`
	Avatar       string      `json:"avatar"`
	CoverImage   string      `json:"coverImage"`
	WatchHistory []uuid.UUID `json:"watchHistory"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Public projects the stored user onto its API-facing view.
func (u User) Public() PublicUser {
	history := u.WatchHistory
	if history == nil {
		history = []uuid.UUID{}
	}

	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Fullname:     u.Fullname,
		Avatar:       u.AvatarURL,
		CoverImage:   u.CoverImageURL,
		WatchHistory: history,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Profile holds the user-editable text fields.
type Profile struct {
	Username string
	Email    string
	Fullname string
}

// NewUser carries everything needed to create a user. Password is plaintext
// and is hashed by the credential store before it reaches persistence.
type NewUser struct {
	Profile
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// NormalizeHandle trims and lowercases a username or email so that
// uniqueness holds regardless of how the client typed it.
func NormalizeHandle(s string) string {
	// Casers keep state and cannot be shared between goroutines.
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// Normalize returns a copy of the profile with handles normalized and the
// full name trimmed.
func (p Profile) Normalize() Profile {
	return Profile{
		Username: NormalizeHandle(p.Username),
		Email:    NormalizeHandle(p.Email),
		Fullname: strings.TrimSpace(p.Fullname),
	}
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Registration is the input of a sign-up. The paths point at staged uploads;
// CoverImagePath may be empty.
type Registration struct {
	Profile
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginRequest identifies a user by Username or Email.
type LoginRequest struct {
	Username string
	Email    string
	Password string
}
