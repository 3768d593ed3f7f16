package session

import (
	"errors"
	"fmt"
)

// Common error types for the session service
var (
	// ErrItemNotFound indicates that the vocabulary item does not exist.
	ErrItemNotFound = errors.New("vocabulary item not found")

	// ErrStateMissing indicates that a vocabulary item has no review state.
	// This is a data-consistency failure: states are seeded at import and
	// are never synthesized later.
	ErrStateMissing = errors.New("review state missing for vocabulary item")

	// ErrInvalidRating indicates an unrecognized grading value.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrDuplicateItem indicates an import collided with an existing item ID.
	ErrDuplicateItem = errors.New("vocabulary item already imported")

	// ErrNoItemsToStudy indicates there is no vocabulary to build a
	// passage or queue from.
	ErrNoItemsToStudy = errors.New("no vocabulary items available")

	// ErrGenerationUnavailable indicates no passage generator is configured.
	ErrGenerationUnavailable = errors.New("passage generation is not configured")
)

// ServiceError wraps errors from the session service with additional
// context. This allows consumers to differentiate between different types
// of service errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "apply_grading")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
