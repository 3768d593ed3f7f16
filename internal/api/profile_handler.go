package api

import (
	"log/slog"
	"net/http"

	"github.com/lexigo-app/lexigo-api/internal/api/shared"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
)

// ProfileHandler handles learner-profile HTTP requests
type ProfileHandler struct {
	sessions session.Service
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(sessions session.Service, log *slog.Logger) *ProfileHandler {
	if sessions == nil {
		panic("sessions cannot be nil for ProfileHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ProfileHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /profile requests.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.sessions.Profile(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}
