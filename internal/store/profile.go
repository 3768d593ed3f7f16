package store

import (
	"context"
	"database/sql"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// ProfileStore defines the interface for learner profile persistence.
// The profile is a singleton row: Load returns ErrProfileNotFound until
// the first Save, and Save upserts.
type ProfileStore interface {
	// Load retrieves the learner profile.
	// Returns ErrProfileNotFound if no profile has been saved yet.
	Load(ctx context.Context) (*domain.LearnerProfile, error)

	// Save upserts the learner profile.
	// Returns validation errors from the domain LearnerProfile if data is invalid.
	Save(ctx context.Context, profile *domain.LearnerProfile) error

	// WithTx returns a new ProfileStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProfileStore
}
