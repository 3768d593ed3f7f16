package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/domain/progression"
	"github.com/lexigo-app/lexigo-api/internal/domain/srs"
	"github.com/lexigo-app/lexigo-api/internal/generation"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/store"
	"github.com/lexigo-app/lexigo-api/internal/task"
)

// Config tunes the session service.
type Config struct {
	// NewItemCap limits never-reviewed items per study queue; srs.NoNewItemCap
	// disables the throttle.
	NewItemCap int

	// DailyReviewTarget is the graded-review count that completes the
	// daily flashcard goal.
	DailyReviewTarget int

	// PassageWordCount is how many target words a reading passage is
	// built around.
	PassageWordCount int

	// Location is the learner's calendar for day boundaries.
	Location *time.Location
}

// Verify interface compliance at compile time
var _ Service = (*sessionService)(nil)

// sessionService implements the Service interface. The profile, vocabulary
// and state maps behind the mutex are the authoritative copies; stores are
// written behind them, asynchronously for grading-path operations.
type sessionService struct {
	mu      sync.Mutex
	profile *domain.LearnerProfile
	vocab   map[uuid.UUID]*domain.VocabularyItem
	states  map[uuid.UUID]*domain.ReviewState

	srsService srs.Service
	generator  generation.Generator

	db         *sql.DB
	profiles   store.ProfileStore
	vocabStore store.VocabularyStore
	stateStore store.ReviewStateStore
	runner     *task.Runner

	config Config
	logger *slog.Logger
}

// NewService creates the session service. The generator may be nil, which
// disables passage generation. Call Load before serving requests.
func NewService(
	srsService srs.Service,
	generator generation.Generator,
	db *sql.DB,
	profiles store.ProfileStore,
	vocabStore store.VocabularyStore,
	stateStore store.ReviewStateStore,
	runner *task.Runner,
	config Config,
	log *slog.Logger,
) *sessionService {
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if profiles == nil || vocabStore == nil || stateStore == nil {
		panic("stores cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &sessionService{
		profile:    domain.NewLearnerProfile(),
		vocab:      make(map[uuid.UUID]*domain.VocabularyItem),
		states:     make(map[uuid.UUID]*domain.ReviewState),
		srsService: srsService,
		generator:  generator,
		db:         db,
		profiles:   profiles,
		vocabStore: vocabStore,
		stateStore: stateStore,
		runner:     runner,
		config:     config,
		logger:     log.With(slog.String("component", "session_service")),
	}
}

// Load hydrates the in-memory collections from the stores. A missing
// profile is first use, not an error.
func (s *sessionService) Load(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profiles.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			return fmt.Errorf("failed to load learner profile: %w", err)
		}
		profile = domain.NewLearnerProfile()
	}

	items, err := s.vocabStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	states, err := s.stateStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load review states: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
	s.vocab = make(map[uuid.UUID]*domain.VocabularyItem, len(items))
	for _, item := range items {
		s.vocab[item.ID] = item
	}
	s.states = make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, state := range states {
		s.states[state.ItemID] = state
	}

	log.Info("session state loaded",
		slog.Int("vocabulary_items", len(items)),
		slog.Int("review_states", len(states)),
		slog.Int("xp", profile.XP))

	return nil
}

// StudyQueue implements Service.StudyQueue.
func (s *sessionService) StudyQueue(ctx context.Context, now time.Time) ([]QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConsistency(); err != nil {
		return nil, err
	}

	states := make([]*domain.ReviewState, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, state)
	}

	due := s.srsService.SelectDue(states, now, s.config.NewItemCap)

	entries := make([]QueueEntry, 0, len(due))
	for _, state := range due {
		item, ok := s.vocab[state.ItemID]
		if !ok {
			return nil, newServiceError("study_queue",
				fmt.Sprintf("review state %s has no vocabulary item", state.ItemID), ErrItemNotFound)
		}
		entries = append(entries, QueueEntry{Item: item, State: state})
	}

	return entries, nil
}

// ApplyGrading implements Service.ApplyGrading.
func (s *sessionService) ApplyGrading(
	ctx context.Context,
	itemID uuid.UUID,
	rating domain.Rating,
	now time.Time,
) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.vocab[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	state, ok := s.states[itemID]
	if !ok {
		return nil, newServiceError("apply_grading",
			fmt.Sprintf("item %s has no review state", itemID), ErrStateMissing)
	}

	newState, err := s.srsService.Grade(state, rating, now)
	if err != nil {
		if errors.Is(err, srs.ErrInvalidRating) {
			return nil, ErrInvalidRating
		}
		return nil, newServiceError("apply_grading", "scheduler rejected grading", err)
	}

	profile := *s.profile
	resetDailyIfStale(&profile, now, s.config.Location)

	awarded := touchActivity(&profile, now, s.config.Location)
	bonus := progression.MasteryBonus(state.Interval, newState.Interval, item.Level)
	awarded += bonus

	profile.DailyProgress.ReviewsCompletedToday++
	if !profile.DailyProgress.FlashcardsDone &&
		profile.DailyProgress.ReviewsCompletedToday >= s.config.DailyReviewTarget {
		profile.DailyProgress.FlashcardsDone = true
		awarded += FlashcardGoalXP
	}

	profile.XP += awarded

	s.states[itemID] = newState
	profile.EffectiveLevel = progression.EffectiveLevel(s.vocabSlice(), s.states)
	profile.UpdatedAt = now

	s.profile = &profile

	log.Debug("grading applied",
		slog.String("item_id", itemID.String()),
		slog.String("rating", string(rating)),
		slog.Float64("interval", newState.Interval),
		slog.Int("awarded_xp", awarded))

	s.persistState(newState)
	s.persistProfile(&profile)

	return &GradeResult{
		Profile:      &profile,
		State:        newState,
		AwardedXP:    awarded,
		MasteryBonus: bonus,
		Rank:         progression.XPRank(profile.XP),
	}, nil
}

// CompleteReading implements Service.CompleteReading.
func (s *sessionService) CompleteReading(ctx context.Context, now time.Time) (*domain.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := *s.profile
	resetDailyIfStale(&profile, now, s.config.Location)

	awarded := touchActivity(&profile, now, s.config.Location)
	if !profile.DailyProgress.ReadingDone {
		profile.DailyProgress.ReadingDone = true
		awarded += ReadingGoalXP
	}

	profile.XP += awarded
	profile.UpdatedAt = now
	s.profile = &profile

	s.persistProfile(&profile)
	return &profile, nil
}

// CompleteSpeaking implements Service.CompleteSpeaking.
func (s *sessionService) CompleteSpeaking(
	ctx context.Context,
	accuracy float64,
	hasAccuracy bool,
	now time.Time,
) (*domain.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := *s.profile
	resetDailyIfStale(&profile, now, s.config.Location)

	awarded := touchActivity(&profile, now, s.config.Location)
	awarded += speakingXP(accuracy, hasAccuracy)
	profile.DailyProgress.SpeakingDone = true

	profile.XP += awarded
	profile.UpdatedAt = now
	s.profile = &profile

	s.persistProfile(&profile)
	return &profile, nil
}

// ImportVocabulary implements Service.ImportVocabulary.
func (s *sessionService) ImportVocabulary(
	ctx context.Context,
	items []*domain.VocabularyItem,
	now time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uuid.UUID]bool, len(items))
	states := make([]*domain.ReviewState, 0, len(items))
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return 0, newServiceError("import_vocabulary",
				fmt.Sprintf("item %d failed validation", i), err)
		}
		if _, exists := s.vocab[item.ID]; exists || seen[item.ID] {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		seen[item.ID] = true

		// Millisecond offsets keep intra-import order stable in the
		// selector's dueAt tie-break.
		state, err := domain.NewReviewState(item.ID, now.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			return 0, newServiceError("import_vocabulary",
				fmt.Sprintf("seeding state for item %d", i), err)
		}
		states = append(states, state)
	}

	// Imports persist synchronously: the batch either lands whole or the
	// in-memory collection stays untouched.
	if s.db != nil {
		err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			if err := s.vocabStore.WithTx(tx).CreateMultiple(ctx, items); err != nil {
				return err
			}
			return s.stateStore.WithTx(tx).CreateMultiple(ctx, states)
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return 0, fmt.Errorf("%w: already persisted", ErrDuplicateItem)
			}
			return 0, newServiceError("import_vocabulary", "failed to persist batch", err)
		}
	}

	for i, item := range items {
		s.vocab[item.ID] = item
		s.states[item.ID] = states[i]
	}

	log.Info("vocabulary imported", slog.Int("count", len(items)))
	return len(items), nil
}

// RemoveVocabulary implements Service.RemoveVocabulary.
func (s *sessionService) RemoveVocabulary(ctx context.Context, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vocab[itemID]; !ok {
		return ErrItemNotFound
	}

	// The review state row cascades with the item, so one delete covers
	// both. Like imports, the deletion is synchronous: memory only
	// changes once storage has.
	if s.db != nil {
		if err := s.vocabStore.Delete(ctx, itemID); err != nil && !errors.Is(err, store.ErrVocabularyNotFound) {
			return newServiceError("remove_vocabulary", "failed to delete item", err)
		}
	}

	delete(s.vocab, itemID)
	delete(s.states, itemID)

	// Removing a mastered item can lower level coverage.
	if level := progression.EffectiveLevel(s.vocabSlice(), s.states); level != s.profile.EffectiveLevel {
		profile := *s.profile
		profile.EffectiveLevel = level
		s.profile = &profile
		s.persistProfile(&profile)
	}

	log.Info("vocabulary item removed", slog.String("item_id", itemID.String()))
	return nil
}

// ReadingPassage implements Service.ReadingPassage.
func (s *sessionService) ReadingPassage(ctx context.Context, now time.Time) (*domain.Passage, error) {
	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	targets, level := s.passageTargets(now)
	if len(targets) == 0 {
		return nil, ErrNoItemsToStudy
	}

	passage, err := s.generator.GeneratePassage(ctx, targets, level)
	if err != nil {
		return nil, newServiceError("reading_passage", "passage generation failed", err)
	}

	return passage, nil
}

// Profile implements Service.Profile.
func (s *sessionService) Profile(ctx context.Context) *domain.LearnerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := *s.profile
	return &profile
}

// passageTargets picks the passage's target words: due items first, topped
// up with the most recently reviewed, capped at the configured count.
func (s *sessionService) passageTargets(now time.Time) ([]*domain.VocabularyItem, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]*domain.ReviewState, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, state)
	}

	picked := make([]*domain.VocabularyItem, 0, s.config.PassageWordCount)
	used := make(map[uuid.UUID]bool)

	for _, state := range s.srsService.SelectDue(states, now, s.config.NewItemCap) {
		if len(picked) >= s.config.PassageWordCount {
			break
		}
		if item, ok := s.vocab[state.ItemID]; ok {
			picked = append(picked, item)
			used[state.ItemID] = true
		}
	}

	if len(picked) < s.config.PassageWordCount {
		sort.Slice(states, func(i, j int) bool {
			return states[i].LastReviewedAt.After(states[j].LastReviewedAt)
		})
		for _, state := range states {
			if len(picked) >= s.config.PassageWordCount {
				break
			}
			if used[state.ItemID] || state.LastReviewedAt.IsZero() {
				continue
			}
			if item, ok := s.vocab[state.ItemID]; ok {
				picked = append(picked, item)
				used[state.ItemID] = true
			}
		}
	}

	return picked, s.profile.EffectiveLevel
}

// checkConsistency verifies every vocabulary item has a review state.
// Caller must hold the mutex.
func (s *sessionService) checkConsistency() error {
	for id := range s.vocab {
		if _, ok := s.states[id]; !ok {
			return newServiceError("study_queue",
				fmt.Sprintf("item %s has no review state", id), ErrStateMissing)
		}
	}
	return nil
}

// vocabSlice snapshots the vocabulary map. Caller must hold the mutex.
func (s *sessionService) vocabSlice() []*domain.VocabularyItem {
	items := make([]*domain.VocabularyItem, 0, len(s.vocab))
	for _, item := range s.vocab {
		items = append(items, item)
	}
	return items
}

// persistState submits an async write of a review state. Queue pressure
// and store failures are logged, never surfaced: the in-memory value stays
// authoritative.
func (s *sessionService) persistState(state *domain.ReviewState) {
	snapshot := *state
	t := task.NewFuncTask(task.TaskTypePersistReview, func(ctx context.Context) error {
		return s.stateStore.Update(ctx, &snapshot)
	})
	if err := s.runner.Submit(t); err != nil {
		s.logger.Error("failed to queue review state write",
			slog.String("item_id", state.ItemID.String()),
			slog.String("error", err.Error()))
	}
}

// persistProfile submits an async write of the learner profile.
func (s *sessionService) persistProfile(profile *domain.LearnerProfile) {
	snapshot := *profile
	t := task.NewFuncTask(task.TaskTypePersistProfile, func(ctx context.Context) error {
		return s.profiles.Save(ctx, &snapshot)
	})
	if err := s.runner.Submit(t); err != nil {
		s.logger.Error("failed to queue profile write",
			slog.String("error", err.Error()))
	}
}
