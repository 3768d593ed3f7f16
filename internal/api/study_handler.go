package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/api/shared"
	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
)

// StudyHandler handles study-queue and grading HTTP requests
type StudyHandler struct {
	sessions session.Service
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(sessions session.Service, log *slog.Logger) *StudyHandler {
	if sessions == nil {
		panic("sessions cannot be nil for StudyHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &StudyHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "study_handler")),
	}
}

// GetStudyQueue handles GET /study/queue requests.
// It returns the prioritized due-item queue; an empty queue is 204.
func (h *StudyHandler) GetStudyQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	entries, err := h.sessions.StudyQueue(r.Context(), time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if len(entries) == 0 {
		log.Debug("no items due for study")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Debug("study queue built", slog.Int("entries", len(entries)))
	shared.RespondWithJSON(w, r, http.StatusOK, queueToResponse(entries))
}

// SubmitGrade handles POST /study/items/{id}/grade requests.
func (h *StudyHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid rating")
		return
	}

	result, err := h.sessions.ApplyGrading(r.Context(), itemID, domain.Rating(req.Rating), time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("grading accepted",
		slog.String("item_id", itemID.String()),
		slog.String("rating", req.Rating),
		slog.Int("awarded_xp", result.AwardedXP))

	shared.RespondWithJSON(w, r, http.StatusOK, GradeResponse{
		Profile:      profileToResponse(result.Profile),
		State:        stateToResponse(result.State),
		AwardedXP:    result.AwardedXP,
		MasteryBonus: result.MasteryBonus,
	})
}
