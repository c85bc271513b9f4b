package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every APIError unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrAuth         = errors.New("authentication error")
	ErrExpiredToken = errors.New("expired token")
	ErrNotFound     = errors.New("not found")
	ErrUpload       = errors.New("upload error")
	ErrInternal     = errors.New("internal error")
)

// ErrDuplicate is returned by stores when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate key")

// APIError is an error that is safe to show to API clients.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func newAPIError(kind error, status int, format string, args ...any) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// NewErrValidation reports missing or malformed input.
func NewErrValidation(format string, args ...any) *APIError {
	return newAPIError(ErrValidation, http.StatusBadRequest, format, args...)
}

// NewErrFieldValidation reports per-field validation failures.
func NewErrFieldValidation(details map[string]string) *APIError {
	err := newAPIError(ErrValidation, http.StatusBadRequest, "Invalid request")
	err.Details = details
	return err
}

func NewErrFieldRequired(field string) *APIError {
	return NewErrValidation("%s is required", field)
}

func NewErrUserAlreadyExists() *APIError {
	return NewErrValidation("Username or Email already exists")
}

func NewErrInvalidCredentials() *APIError {
	return newAPIError(ErrAuth, http.StatusBadRequest, "Incorrect Password")
}

func NewErrIncorrectOldPassword() *APIError {
	return newAPIError(ErrAuth, http.StatusBadRequest, "Invalid old password")
}

// NewErrUnauthorized reports a missing or unusable bearer/cookie token.
func NewErrUnauthorized(message string) *APIError {
	return newAPIError(ErrAuth, http.StatusUnauthorized, "%s", message)
}

func NewErrRefreshTokenExpired() *APIError {
	return newAPIError(ErrExpiredToken, http.StatusUnauthorized, "Refresh token is expired or used")
}

func NewErrUserNotFound() *APIError {
	return newAPIError(ErrNotFound, http.StatusBadRequest, "User does not exist")
}

func NewErrChannelNotFound(username string) *APIError {
	return newAPIError(ErrNotFound, http.StatusNotFound, "Channel %q does not exist", username)
}

func NewErrUpload(what string) *APIError {
	return newAPIError(ErrUpload, http.StatusInternalServerError, "Error while uploading %s", what)
}

func NewErrInternal(message string) *APIError {
	return newAPIError(ErrInternal, http.StatusInternalServerError, "%s", message)
}
