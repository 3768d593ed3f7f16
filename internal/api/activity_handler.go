package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/api/shared"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
)

// ActivityHandler handles reading and speaking session HTTP requests
type ActivityHandler struct {
	sessions session.Service
	logger   *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(sessions session.Service, log *slog.Logger) *ActivityHandler {
	if sessions == nil {
		panic("sessions cannot be nil for ActivityHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ActivityHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "activity_handler")),
	}
}

// GetReadingPassage handles GET /reading/passage requests.
func (h *ActivityHandler) GetReadingPassage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	passage, err := h.sessions.ReadingPassage(r.Context(), time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("passage generated", slog.String("passage_id", passage.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, passageToResponse(passage))
}

// CompleteReading handles POST /reading/complete requests.
func (h *ActivityHandler) CompleteReading(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.CompleteReading(r.Context(), time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// CompleteSpeaking handles POST /speaking/complete requests.
func (h *ActivityHandler) CompleteSpeaking(w http.ResponseWriter, r *http.Request) {
	var req SpeakingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Accuracy must be between 0 and 1")
		return
	}

	accuracy := 0.0
	hasAccuracy := req.Accuracy != nil
	if hasAccuracy {
		accuracy = *req.Accuracy
	}

	profile, err := h.sessions.CompleteSpeaking(r.Context(), accuracy, hasAccuracy, time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}
