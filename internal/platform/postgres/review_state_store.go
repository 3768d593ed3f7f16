package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/store"
)

// ReviewStateStore implements the store.ReviewStateStore interface using a
// PostgreSQL database as the storage backend.
type ReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller. If
// logger is nil, a default logger will be used.
func NewReviewStateStore(db store.DBTX, log *slog.Logger) *ReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &ReviewStateStore{
		db:     db,
		logger: log.With(slog.String("component", "review_state_store")),
	}
}

// Ensure ReviewStateStore implements store.ReviewStateStore
var _ store.ReviewStateStore = (*ReviewStateStore)(nil)

// CreateMultiple implements store.ReviewStateStore.CreateMultiple.
func (s *ReviewStateStore) CreateMultiple(ctx context.Context, states []*domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, state := range states {
		if err := state.Validate(); err != nil {
			log.Warn("review state validation failed during batch create",
				slog.Int("batch_index", i),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: state %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	query := `
		INSERT INTO review_states (
			item_id, ease, interval, due_at, review_count, lapse_count,
			last_reviewed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		log.Error("failed to prepare review state insert", slog.String("error", err.Error()))
		return mapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, state := range states {
		_, err := stmt.ExecContext(
			ctx,
			state.ItemID,
			state.Ease,
			state.Interval,
			state.DueAt,
			state.ReviewCount,
			state.LapseCount,
			nullableTime(state.LastReviewedAt),
			state.CreatedAt,
			state.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				log.Warn("duplicate review state in batch",
					slog.String("item_id", state.ItemID.String()))
				return store.ErrDuplicate
			}
			log.Error("failed to insert review state",
				slog.String("item_id", state.ItemID.String()),
				slog.String("error", err.Error()))
			return mapError(err)
		}
	}

	log.Debug("review state batch created", slog.Int("count", len(states)))
	return nil
}

// Get implements store.ReviewStateStore.Get.
func (s *ReviewStateStore) Get(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT item_id, ease, interval, due_at, review_count, lapse_count,
		       last_reviewed_at, created_at, updated_at
		FROM review_states
		WHERE item_id = $1
	`

	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review state not found", slog.String("item_id", itemID.String()))
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return state, nil
}

// List implements store.ReviewStateStore.List.
func (s *ReviewStateStore) List(ctx context.Context) ([]*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT item_id, ease, interval, due_at, review_count, lapse_count,
		       last_reviewed_at, created_at, updated_at
		FROM review_states
		ORDER BY due_at, item_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list review states", slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var states []*domain.ReviewState
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			log.Error("failed to scan review state row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return states, nil
}

// Update implements store.ReviewStateStore.Update.
func (s *ReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during update",
			slog.String("item_id", state.ItemID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE review_states
		SET ease = $2, interval = $3, due_at = $4, review_count = $5,
		    lapse_count = $6, last_reviewed_at = $7, updated_at = $8
		WHERE item_id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.ItemID,
		state.Ease,
		state.Interval,
		state.DueAt,
		state.ReviewCount,
		state.LapseCount,
		nullableTime(state.LastReviewedAt),
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("item_id", state.ItemID.String()),
			slog.String("error", err.Error()))
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrReviewStateNotFound
	}

	log.Debug("review state updated",
		slog.String("item_id", state.ItemID.String()),
		slog.Float64("interval", state.Interval))
	return nil
}

// WithTx implements store.ReviewStateStore.WithTx.
func (s *ReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &ReviewStateStore{db: tx, logger: s.logger}
}

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var state domain.ReviewState
	var lastReviewed sql.NullTime

	err := row.Scan(
		&state.ItemID,
		&state.Ease,
		&state.Interval,
		&state.DueAt,
		&state.ReviewCount,
		&state.LapseCount,
		&lastReviewed,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time
	}

	return &state, nil
}
