package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/store"
)

// profileRowID is the fixed primary key of the singleton profile row.
const profileRowID = 1

// ProfileStore implements the store.ProfileStore interface using a
// PostgreSQL database as the storage backend.
type ProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewProfileStore(db store.DBTX, log *slog.Logger) *ProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &ProfileStore{
		db:     db,
		logger: log.With(slog.String("component", "profile_store")),
	}
}

// Ensure ProfileStore implements store.ProfileStore
var _ store.ProfileStore = (*ProfileStore)(nil)

// Load implements store.ProfileStore.Load.
// Returns store.ErrProfileNotFound if no profile has been saved yet.
func (s *ProfileStore) Load(ctx context.Context) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT effective_level, xp, streak_days, last_activity_at,
		       daily_day, daily_flashcards_done, daily_reading_done,
		       daily_speaking_done, daily_reviews_completed,
		       created_at, updated_at
		FROM learner_profiles
		WHERE id = $1
	`

	var profile domain.LearnerProfile
	var lastActivity, dailyDay sql.NullTime

	err := s.db.QueryRowContext(ctx, query, profileRowID).Scan(
		&profile.EffectiveLevel,
		&profile.XP,
		&profile.StreakDays,
		&lastActivity,
		&dailyDay,
		&profile.DailyProgress.FlashcardsDone,
		&profile.DailyProgress.ReadingDone,
		&profile.DailyProgress.SpeakingDone,
		&profile.DailyProgress.ReviewsCompletedToday,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no learner profile saved yet")
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to load learner profile", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	if lastActivity.Valid {
		profile.LastActivityAt = lastActivity.Time
	}
	if dailyDay.Valid {
		profile.DailyProgress.Day = dailyDay.Time
	}

	return &profile, nil
}

// Save implements store.ProfileStore.Save with an upsert on the singleton
// row.
func (s *ProfileStore) Save(ctx context.Context, profile *domain.LearnerProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during save", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO learner_profiles (
			id, effective_level, xp, streak_days, last_activity_at,
			daily_day, daily_flashcards_done, daily_reading_done,
			daily_speaking_done, daily_reviews_completed,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			effective_level = EXCLUDED.effective_level,
			xp = EXCLUDED.xp,
			streak_days = EXCLUDED.streak_days,
			last_activity_at = EXCLUDED.last_activity_at,
			daily_day = EXCLUDED.daily_day,
			daily_flashcards_done = EXCLUDED.daily_flashcards_done,
			daily_reading_done = EXCLUDED.daily_reading_done,
			daily_speaking_done = EXCLUDED.daily_speaking_done,
			daily_reviews_completed = EXCLUDED.daily_reviews_completed,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		profileRowID,
		profile.EffectiveLevel,
		profile.XP,
		profile.StreakDays,
		nullableTime(profile.LastActivityAt),
		nullableTime(profile.DailyProgress.Day),
		profile.DailyProgress.FlashcardsDone,
		profile.DailyProgress.ReadingDone,
		profile.DailyProgress.SpeakingDone,
		profile.DailyProgress.ReviewsCompletedToday,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save learner profile", slog.String("error", err.Error()))
		return mapError(err)
	}

	log.Debug("learner profile saved",
		slog.Int("xp", profile.XP),
		slog.Int("streak_days", profile.StreakDays))
	return nil
}

// WithTx implements store.ProfileStore.WithTx.
func (s *ProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &ProfileStore{db: tx, logger: s.logger}
}

// nullableTime converts a zero time into a SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
