package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// ReviewStateStore defines the interface for review-state persistence.
// There is exactly one state row per vocabulary item.
type ReviewStateStore interface {
	// CreateMultiple saves a batch of freshly seeded review states. It
	// MUST be run within a transaction alongside the vocabulary batch it
	// belongs to.
	CreateMultiple(ctx context.Context, states []*domain.ReviewState) error

	// Get retrieves the review state for a vocabulary item.
	// Returns ErrReviewStateNotFound if the state does not exist.
	Get(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error)

	// List retrieves the full review-state collection.
	List(ctx context.Context) ([]*domain.ReviewState, error)

	// Update modifies an existing review state, identified by its ItemID.
	// Returns ErrReviewStateNotFound if the state does not exist.
	// Returns validation errors from the domain ReviewState if data is invalid.
	Update(ctx context.Context, state *domain.ReviewState) error

	// WithTx returns a new ReviewStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ReviewStateStore
}
