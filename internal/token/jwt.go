package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/model"
)

// ErrInvalidToken is returned for tokens that are malformed, expired, signed
// with another key or of the wrong kind.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Fullname  string    `json:"fullname"`
	TokenType string    `json:"typ"`
}

// RefreshClaims is the payload of a refresh token. It identifies the user only.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"_id"`
	TokenType string    `json:"typ"`
}

// Key is the secret and lifetime of one token kind.
type Key struct {
	Secret string
	TTL    time.Duration
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	access  Key
	refresh Key
	now     func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a token manager with separate keys for access and refresh tokens.
func NewJWT(access, refresh Key) *JWT {
	return &JWT{access: access, refresh: refresh, now: time.Now}
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// GenerateAccessToken creates a short-lived token carrying the user's identity.
func (j *JWT) GenerateAccessToken(user model.User) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.access.TTL)),
		},
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Fullname:  user.Fullname,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.access.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived token. Every call yields a
// distinct token because of the random JTI.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refresh.TTL)),
		},
		UserID:    userID,
		TokenType: typeRefresh,
	})

	tokenString, err := token.SignedString([]byte(j.refresh.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and returns its identity claims.
func (j *JWT) ParseAccessToken(tokenString string) (model.AccessClaims, error) {
	claims := &AccessClaims{}
	if err := j.parse(tokenString, claims, j.access.Secret); err != nil {
		return model.AccessClaims{}, err
	}
	if claims.TokenType != typeAccess || claims.UserID == uuid.Nil {
		return model.AccessClaims{}, fmt.Errorf("%w: token type mismatch: %s", ErrInvalidToken, claims.TokenType)
	}

	return model.AccessClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Fullname: claims.Fullname,
	}, nil
}

// ParseRefreshToken validates a refresh token and returns the user ID it was issued to.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	claims := &RefreshClaims{}
	if err := j.parse(tokenString, claims, j.refresh.Secret); err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != typeRefresh || claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: token type mismatch: %s", ErrInvalidToken, claims.TokenType)
	}
	return claims.UserID, nil
}

func (j *JWT) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
