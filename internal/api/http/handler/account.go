package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

type updateAccountRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
}

func (r *updateAccountRequest) trim() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
}

// Account handles profile and image updates of the signed-in user.
type Account struct {
	accountService AccountService
	contextManager model.ContextManager
	validator      *Validator
	opts           Options
	logger         *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(
	accountService AccountService,
	contextManager model.ContextManager,
	validator *Validator,
	opts Options,
	logger *logger.Logger,
) *Account {
	return &Account{
		accountService: accountService,
		contextManager: contextManager,
		validator:      validator,
		opts:           opts,
		logger:         logger,
	}
}

func (h *Account) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, h.validator, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	updated, err := h.accountService.UpdateAccount(r.Context(), user.ID, model.Profile{
		Username: req.Username,
		Email:    req.Email,
		Fullname: req.Fullname,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, updated, "Account details updated successfully")
}

func (h *Account) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, fieldAvatar, h.accountService.UpdateAvatar, "Avatar updated successfully")
}

func (h *Account) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, fieldCoverImage, h.accountService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error)

func (h *Account) updateImage(w http.ResponseWriter, r *http.Request, field string, update imageUpdater, message string) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	staged, err := stageUploads(w, r, h.opts, field)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	defer staged.Cleanup()

	updated, err := update(r.Context(), user.ID, staged.Path(field))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, updated, message)
}
