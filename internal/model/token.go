package model

import "github.com/google/uuid"

// TokenManager signs and verifies access and refresh tokens. Each kind has
// its own secret and lifetime.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (AccessClaims, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}

// AccessClaims is the identity carried inside an access token.
type AccessClaims struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Fullname string
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the result of a successful login.
type Session struct {
	User PublicUser `json:"user"`
	TokenPair
}
