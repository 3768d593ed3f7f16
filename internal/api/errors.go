package api

import (
	"errors"
	"net/http"

	"github.com/lexigo-app/lexigo-api/internal/api/shared"
	"github.com/lexigo-app/lexigo-api/internal/generation"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
	"github.com/lexigo-app/lexigo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, session.ErrItemNotFound),
		errors.Is(err, session.ErrNoItemsToStudy),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, session.ErrDuplicateItem),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, session.ErrInvalidRating),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Feature not configured
	case errors.Is(err, session.ErrGenerationUnavailable):
		return http.StatusNotImplemented

	// Upstream generation trouble
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Data-consistency failures are server-side problems
	case errors.Is(err, session.ErrStateMissing):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, session.ErrItemNotFound):
		return "Vocabulary item not found"

	case errors.Is(err, session.ErrDuplicateItem):
		return "Vocabulary item already imported"

	case errors.Is(err, session.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, session.ErrStateMissing):
		return "Review data is inconsistent"

	case errors.Is(err, session.ErrNoItemsToStudy):
		return "No vocabulary available yet"

	case errors.Is(err, session.ErrGenerationUnavailable):
		return "Passage generation is not configured"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Generated content was blocked by safety filters"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Passage generation is temporarily unavailable"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and sanitized message for err.
// An explicit message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
