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

// VocabularyHandler handles vocabulary-import HTTP requests
type VocabularyHandler struct {
	sessions session.Service
	logger   *slog.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler
func NewVocabularyHandler(sessions session.Service, log *slog.Logger) *VocabularyHandler {
	if sessions == nil {
		panic("sessions cannot be nil for VocabularyHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &VocabularyHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "vocabulary_handler")),
	}
}

// ImportVocabulary handles POST /vocabulary/import requests. The batch is
// all-or-nothing: one bad entry rejects the whole import.
func (h *VocabularyHandler) ImportVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid import batch")
		return
	}

	items := make([]*domain.VocabularyItem, 0, len(req.Items))
	for i, entry := range req.Items {
		item, err := domain.NewVocabularyItem(entry.Text, entry.Reading, entry.Gloss, entry.Level, entry.Tags)
		if err != nil {
			log.Debug("rejecting import entry",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid vocabulary entry")
			return
		}
		items = append(items, item)
	}

	count, err := h.sessions.ImportVocabulary(r.Context(), items, time.Now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("vocabulary batch imported", slog.Int("count", count))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{Imported: count})
}

// DeleteVocabulary handles DELETE /vocabulary/{id} requests. The item's
// review state is removed with it.
func (h *VocabularyHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.sessions.RemoveVocabulary(r.Context(), itemID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("vocabulary item deleted", slog.String("item_id", itemID.String()))
	w.WriteHeader(http.StatusNoContent)
}
