package handler

import (
	"net/http"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

const (
	fieldAvatar     = "avatar"
	fieldCoverImage = "coverImage"
)

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"password" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Auth handles the session lifecycle endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	validator      *Validator
	opts           Options
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	validator *Validator,
	opts Options,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		validator:      validator,
		opts:           opts,
		logger:         logger,
	}
}

// Register creates an account from a multipart form with an avatar and an
// optional cover image.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	staged, err := stageUploads(w, r, h.opts, fieldAvatar, fieldCoverImage)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	defer staged.Cleanup()

	reg := model.Registration{
		Profile: model.Profile{
			Username: staged.Value("username"),
			Email:    staged.Value("email"),
			Fullname: staged.Value("fullname"),
		},
		Password:       staged.Value("password"),
		AvatarPath:     staged.Path(fieldAvatar),
		CoverImagePath: staged.Path(fieldCoverImage),
	}

	h.logger.Debug("Auth handler: processing registration request",
		"username", reg.Username)

	user, err := h.authService.Register(r.Context(), reg)
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"username", reg.Username,
			"error", err.Error())
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", user.ID.String())

	respondSuccess(w, r, h.logger, http.StatusOK, user, "User registered successfully")
}

// Login verifies credentials, sets token cookies and returns the session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, h.validator, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), model.LoginRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.opts.setTokenCookies(w, session.TokenPair)
	respondSuccess(w, r, h.logger, http.StatusOK, session, "Logged in successfully")
}

// Logout revokes the refresh token and clears both cookies.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.opts.clearTokenCookies(w)
	respondSuccess(w, r, h.logger, http.StatusOK, struct{}{}, "Logged out")
}

// RefreshToken rotates the refresh token taken from the cookie or the body.
func (h *Auth) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req refreshRequest
		if err := decodeJSON(r, h.validator, &req); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.opts.setTokenCookies(w, pair)
	respondSuccess(w, r, h.logger, http.StatusOK, pair, "Access token refreshed")
}

// ChangePassword replaces the password after checking the old one.
func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, h.validator, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if _, err := h.authService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, struct{}{}, "Password changed successfully")
}

// CurrentUser returns the authenticated user.
func (h *Auth) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, user, "Current user fetched successfully")
}
