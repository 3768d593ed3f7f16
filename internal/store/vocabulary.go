package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// VocabularyStore defines the interface for vocabulary item persistence.
type VocabularyStore interface {
	// CreateMultiple saves a batch of vocabulary items. It MUST be run
	// within a transaction for atomicity; use WithTx together with
	// store.RunInTransaction.
	// Returns validation errors if any item is invalid and ErrDuplicate
	// if an item with the same ID already exists.
	CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error

	// GetByID retrieves a vocabulary item by its unique ID.
	// Returns ErrVocabularyNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)

	// List retrieves the full vocabulary collection.
	List(ctx context.Context) ([]*domain.VocabularyItem, error)

	// Delete removes a vocabulary item by its ID. The associated review
	// state is removed by the schema's cascade rule.
	// Returns ErrVocabularyNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new VocabularyStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) VocabularyStore
}
