package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/store"
)

// VocabularyStore implements the store.VocabularyStore interface using a
// PostgreSQL database as the storage backend.
type VocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewVocabularyStore(db store.DBTX, log *slog.Logger) *VocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &VocabularyStore{
		db:     db,
		logger: log.With(slog.String("component", "vocabulary_store")),
	}
}

// Ensure VocabularyStore implements store.VocabularyStore
var _ store.VocabularyStore = (*VocabularyStore)(nil)

// CreateMultiple implements store.VocabularyStore.CreateMultiple.
// Every item is validated before the first insert so a bad entry rejects
// the whole batch without touching the database.
func (s *VocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("vocabulary item validation failed during batch create",
				slog.Int("batch_index", i),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: item %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	query := `
		INSERT INTO vocabulary_items (id, text, reading, gloss, level, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		log.Error("failed to prepare vocabulary insert", slog.String("error", err.Error()))
		return mapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		tags, err := encodeTags(item.Tags)
		if err != nil {
			return fmt.Errorf("%w: encoding tags for item %s: %v", store.ErrInvalidEntity, item.ID, err)
		}

		_, err = stmt.ExecContext(
			ctx,
			item.ID,
			item.Text,
			item.Reading,
			item.Gloss,
			item.Level,
			tags,
			item.CreatedAt,
			item.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				log.Warn("duplicate vocabulary item in batch",
					slog.String("item_id", item.ID.String()))
				return store.ErrDuplicate
			}
			log.Error("failed to insert vocabulary item",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return mapError(err)
		}
	}

	log.Debug("vocabulary batch created", slog.Int("count", len(items)))
	return nil
}

// GetByID implements store.VocabularyStore.GetByID.
func (s *VocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, text, reading, gloss, level, tags, created_at, updated_at
		FROM vocabulary_items
		WHERE id = $1
	`

	item, err := scanVocabularyItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("vocabulary item not found", slog.String("item_id", id.String()))
			return nil, store.ErrVocabularyNotFound
		}
		log.Error("failed to get vocabulary item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return item, nil
}

// List implements store.VocabularyStore.List.
// Items come back in import order so level statistics are deterministic.
func (s *VocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, text, reading, gloss, level, tags, created_at, updated_at
		FROM vocabulary_items
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list vocabulary items", slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.VocabularyItem
	for rows.Next() {
		item, err := scanVocabularyItem(rows)
		if err != nil {
			log.Error("failed to scan vocabulary row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return items, nil
}

// Delete implements store.VocabularyStore.Delete.
// The associated review state goes with it via the schema's cascade rule.
func (s *VocabularyStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM vocabulary_items WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete vocabulary item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrVocabularyNotFound
	}

	log.Debug("vocabulary item deleted", slog.String("item_id", id.String()))
	return nil
}

// WithTx implements store.VocabularyStore.WithTx.
func (s *VocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &VocabularyStore{db: tx, logger: s.logger}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabularyItem(row rowScanner) (*domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	var tags []byte

	err := row.Scan(
		&item.ID,
		&item.Text,
		&item.Reading,
		&item.Gloss,
		&item.Level,
		&tags,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	}

	return &item, nil
}

// encodeTags serializes tags for the JSONB column. A nil slice becomes a
// SQL NULL rather than the string "null".
func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return json.Marshal(tags)
}
