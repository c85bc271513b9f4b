package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

// Channel handles channel page and watch history reads.
type Channel struct {
	channelService ChannelService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewChannel creates a new Channel handler.
func NewChannel(channelService ChannelService, contextManager model.ContextManager, logger *logger.Logger) *Channel {
	return &Channel{channelService: channelService, contextManager: contextManager, logger: logger}
}

// ChannelProfile returns the channel named by the username path parameter as
// seen by the signed-in user.
func (h *Channel) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	viewer, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	profile, err := h.channelService.GetChannelProfile(r.Context(), chi.URLParam(r, "username"), viewer.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *Channel) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r.Context(), h.contextManager)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	history, err := h.channelService.GetWatchHistory(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, r, h.logger, http.StatusOK, history, "Watch history fetched successfully")
}
