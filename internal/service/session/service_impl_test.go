package session

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/domain/progression"
	"github.com/lexigo-app/lexigo-api/internal/domain/srs"
	"github.com/lexigo-app/lexigo-api/internal/store"
	"github.com/lexigo-app/lexigo-api/internal/task"
)

// fakeProfileStore is an in-memory store.ProfileStore for tests.
type fakeProfileStore struct {
	mu      sync.Mutex
	profile *domain.LearnerProfile
	saves   int
}

func (f *fakeProfileStore) Load(ctx context.Context) (*domain.LearnerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, store.ErrProfileNotFound
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeProfileStore) Save(ctx context.Context, profile *domain.LearnerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *profile
	f.profile = &p
	f.saves++
	return nil
}

func (f *fakeProfileStore) WithTx(tx *sql.Tx) store.ProfileStore { return f }

// fakeVocabularyStore is an in-memory store.VocabularyStore for tests.
type fakeVocabularyStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.VocabularyItem
}

func newFakeVocabularyStore() *fakeVocabularyStore {
	return &fakeVocabularyStore{items: make(map[uuid.UUID]*domain.VocabularyItem)}
}

func (f *fakeVocabularyStore) CreateMultiple(ctx context.Context, items []*domain.VocabularyItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		if _, exists := f.items[item.ID]; exists {
			return store.ErrDuplicate
		}
	}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return nil
}

func (f *fakeVocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, store.ErrVocabularyNotFound
	}
	return item, nil
}

func (f *fakeVocabularyStore) List(ctx context.Context) ([]*domain.VocabularyItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]*domain.VocabularyItem, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeVocabularyStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return store.ErrVocabularyNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore { return f }

// fakeReviewStateStore is an in-memory store.ReviewStateStore for tests.
type fakeReviewStateStore struct {
	mu      sync.Mutex
	states  map[uuid.UUID]*domain.ReviewState
	updates int
}

func newFakeReviewStateStore() *fakeReviewStateStore {
	return &fakeReviewStateStore{states: make(map[uuid.UUID]*domain.ReviewState)}
}

func (f *fakeReviewStateStore) CreateMultiple(ctx context.Context, states []*domain.ReviewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, state := range states {
		f.states[state.ItemID] = state
	}
	return nil
}

func (f *fakeReviewStateStore) Get(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[itemID]
	if !ok {
		return nil, store.ErrReviewStateNotFound
	}
	return state, nil
}

func (f *fakeReviewStateStore) List(ctx context.Context) ([]*domain.ReviewState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	states := make([]*domain.ReviewState, 0, len(f.states))
	for _, state := range f.states {
		states = append(states, state)
	}
	return states, nil
}

func (f *fakeReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.states[state.ItemID]; !ok {
		return store.ErrReviewStateNotFound
	}
	f.states[state.ItemID] = state
	f.updates++
	return nil
}

func (f *fakeReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore { return f }

// fakeGenerator returns a canned passage.
type fakeGenerator struct {
	gotItems []*domain.VocabularyItem
	gotLevel int
	err      error
}

func (f *fakeGenerator) GeneratePassage(
	ctx context.Context,
	items []*domain.VocabularyItem,
	level int,
) (*domain.Passage, error) {
	f.gotItems = items
	f.gotLevel = level
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return domain.NewPassage("Test", "body text", ids)
}

type testEnv struct {
	svc      *sessionService
	profiles *fakeProfileStore
	vocab    *fakeVocabularyStore
	states   *fakeReviewStateStore
	runner   *task.Runner
}

func newTestEnv(t *testing.T, gen *fakeGenerator) *testEnv {
	t.Helper()

	profiles := &fakeProfileStore{}
	vocab := newFakeVocabularyStore()
	states := newFakeReviewStateStore()
	runner := task.NewRunner(task.RunnerConfig{WorkerCount: 1, QueueSize: 50}, slog.Default())
	runner.Start()

	var generator *fakeGenerator
	if gen != nil {
		generator = gen
	}

	cfg := Config{
		NewItemCap:        srs.NoNewItemCap,
		DailyReviewTarget: 3,
		PassageWordCount:  3,
		Location:          time.UTC,
	}

	var svc *sessionService
	if generator != nil {
		svc = NewService(srs.NewService(), generator, nil, profiles, vocab, states, runner, cfg, slog.Default())
	} else {
		svc = NewService(srs.NewService(), nil, nil, profiles, vocab, states, runner, cfg, slog.Default())
	}

	return &testEnv{svc: svc, profiles: profiles, vocab: vocab, states: states, runner: runner}
}

// seedItem installs an item plus state directly into the in-memory maps
// and the fake stores.
func (e *testEnv) seedItem(t *testing.T, level int, state *domain.ReviewState) *domain.VocabularyItem {
	t.Helper()

	item, err := domain.NewVocabularyItem("word", "", "meaning", level, nil)
	require.NoError(t, err)

	state.ItemID = item.ID
	e.svc.vocab[item.ID] = item
	e.svc.states[item.ID] = state
	e.vocab.items[item.ID] = item
	e.states.states[item.ID] = state
	return item
}

func dueState(now time.Time) *domain.ReviewState {
	return &domain.ReviewState{
		Ease:      domain.DefaultEase,
		Interval:  0,
		DueAt:     now.Add(-time.Hour),
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now.Add(-24 * time.Hour),
	}
}

func TestApplyGrading(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("happy path awards streak bonus and updates state", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		item := env.seedItem(t, 1, dueState(now))

		result, err := env.svc.ApplyGrading(context.Background(), item.ID, domain.RatingGood, now)
		require.NoError(t, err)

		assert.Equal(t, float64(1), result.State.Interval, "first Good graduates to one day")
		assert.Equal(t, StreakBonusXP, result.AwardedXP)
		assert.Zero(t, result.MasteryBonus)
		assert.Equal(t, StreakBonusXP, result.Profile.XP)
		assert.Equal(t, 1, result.Profile.StreakDays)
		assert.Equal(t, 1, result.Profile.DailyProgress.ReviewsCompletedToday)
		assert.Equal(t, progression.RankNovice, result.Rank)

		env.runner.Stop()
		assert.Equal(t, 1, env.states.updates, "state write reaches the store asynchronously")
		assert.Equal(t, 1, env.profiles.saves)
	})

	t.Run("mastery crossing awards the level bonus", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		state := dueState(now)
		state.Interval = 15
		state.ReviewCount = 4
		state.LastReviewedAt = now.Add(-15 * 24 * time.Hour)
		item := env.seedItem(t, 2, state)

		result, err := env.svc.ApplyGrading(context.Background(), item.ID, domain.RatingGood, now)
		require.NoError(t, err)

		assert.Equal(t, float64(38), result.State.Interval)
		assert.Equal(t, 15, result.MasteryBonus, "level 2 mastery tier")
		assert.Equal(t, StreakBonusXP+15, result.AwardedXP)
		env.runner.Stop()
	})

	t.Run("daily target completes the flashcard goal once", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		var items []*domain.VocabularyItem
		for i := 0; i < 4; i++ {
			items = append(items, env.seedItem(t, 1, dueState(now)))
		}

		var lastXP int
		for i, item := range items {
			result, err := env.svc.ApplyGrading(context.Background(), item.ID, domain.RatingGood, now.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
			lastXP = result.Profile.XP
			if i == 2 {
				assert.True(t, result.Profile.DailyProgress.FlashcardsDone, "third review hits the target of 3")
			}
		}

		// streak bonus once + goal bonus once, nothing else.
		assert.Equal(t, StreakBonusXP+FlashcardGoalXP, lastXP)
		env.runner.Stop()
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)

		_, err := env.svc.ApplyGrading(context.Background(), uuid.New(), domain.RatingGood, now)
		assert.ErrorIs(t, err, ErrItemNotFound)
		env.runner.Stop()
	})

	t.Run("invalid rating", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		item := env.seedItem(t, 1, dueState(now))

		_, err := env.svc.ApplyGrading(context.Background(), item.ID, domain.Rating("perfect"), now)
		assert.ErrorIs(t, err, ErrInvalidRating)
		env.runner.Stop()
	})

	t.Run("missing state is a consistency error", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		item := env.seedItem(t, 1, dueState(now))
		delete(env.svc.states, item.ID)

		_, err := env.svc.ApplyGrading(context.Background(), item.ID, domain.RatingGood, now)
		assert.ErrorIs(t, err, ErrStateMissing)
		env.runner.Stop()
	})
}

func TestCompleteReadingIsOneShotPerDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(t, nil)

	first, err := env.svc.CompleteReading(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, first.DailyProgress.ReadingDone)
	assert.Equal(t, StreakBonusXP+ReadingGoalXP, first.XP)

	second, err := env.svc.CompleteReading(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.XP, second.XP, "no double award the same day")

	nextDay, err := env.svc.CompleteReading(context.Background(), now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.XP+StreakBonusXP+ReadingGoalXP, nextDay.XP)
	assert.Equal(t, 2, nextDay.StreakDays)

	env.runner.Stop()
}

func TestCompleteSpeakingIsNotGated(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(t, nil)

	first, err := env.svc.CompleteSpeaking(context.Background(), 0, false, now)
	require.NoError(t, err)
	assert.True(t, first.DailyProgress.SpeakingDone)
	assert.Equal(t, StreakBonusXP+SpeakingDefaultXP, first.XP)

	second, err := env.svc.CompleteSpeaking(context.Background(), 0.8, true, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.XP+16, second.XP, "every session scores, scaled by accuracy")

	env.runner.Stop()
}

func TestImportVocabulary(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("seeds states with batch-ordered due times", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)

		var items []*domain.VocabularyItem
		for i := 0; i < 3; i++ {
			item, err := domain.NewVocabularyItem("w", "", "m", 1, nil)
			require.NoError(t, err)
			items = append(items, item)
		}

		count, err := env.svc.ImportVocabulary(context.Background(), items, now)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		for i, item := range items {
			state := env.svc.states[item.ID]
			require.NotNil(t, state)
			assert.Equal(t, now.Add(time.Duration(i)*time.Millisecond), state.DueAt)
			assert.Equal(t, domain.DefaultEase, state.Ease)
			assert.Zero(t, state.Interval)
		}

		// A queue built right away preserves import order.
		queue, err := env.svc.StudyQueue(context.Background(), now.Add(time.Minute))
		require.NoError(t, err)
		require.Len(t, queue, 3)
		for i, entry := range queue {
			assert.Equal(t, items[i].ID, entry.Item.ID)
		}

		env.runner.Stop()
	})

	t.Run("rejects duplicate of existing item", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		existing := env.seedItem(t, 1, dueState(now))

		dup := *existing
		_, err := env.svc.ImportVocabulary(context.Background(), []*domain.VocabularyItem{&dup}, now)
		assert.ErrorIs(t, err, ErrDuplicateItem)

		env.runner.Stop()
	})

	t.Run("rejects invalid item without partial import", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)

		good, err := domain.NewVocabularyItem("w", "", "m", 1, nil)
		require.NoError(t, err)
		bad := &domain.VocabularyItem{ID: uuid.New(), Level: 1}

		_, err = env.svc.ImportVocabulary(context.Background(), []*domain.VocabularyItem{good, bad}, now)
		require.Error(t, err)
		assert.Empty(t, env.svc.vocab)

		env.runner.Stop()
	})
}

func TestRemoveVocabulary(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("removes item and state", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		item := env.seedItem(t, 1, dueState(now))

		err := env.svc.RemoveVocabulary(context.Background(), item.ID)
		require.NoError(t, err)
		assert.NotContains(t, env.svc.vocab, item.ID)
		assert.NotContains(t, env.svc.states, item.ID)

		queue, err := env.svc.StudyQueue(context.Background(), now)
		require.NoError(t, err)
		assert.Empty(t, queue)

		env.runner.Stop()
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)

		err := env.svc.RemoveVocabulary(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrItemNotFound)

		env.runner.Stop()
	})
}

func TestStudyQueue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("joins due states with items", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		due := env.seedItem(t, 1, dueState(now))

		future := dueState(now)
		future.DueAt = now.Add(48 * time.Hour)
		env.seedItem(t, 1, future)

		queue, err := env.svc.StudyQueue(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, due.ID, queue[0].Item.ID)
		assert.NotNil(t, queue[0].State)

		env.runner.Stop()
	})

	t.Run("item without state fails loudly", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		item := env.seedItem(t, 1, dueState(now))
		delete(env.svc.states, item.ID)

		_, err := env.svc.StudyQueue(context.Background(), now)
		assert.ErrorIs(t, err, ErrStateMissing)

		env.runner.Stop()
	})
}

func TestReadingPassage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("targets due items at the learner level", func(t *testing.T) {
		t.Parallel()
		gen := &fakeGenerator{}
		env := newTestEnv(t, gen)
		env.seedItem(t, 1, dueState(now))
		env.seedItem(t, 1, dueState(now))

		passage, err := env.svc.ReadingPassage(context.Background(), now)
		require.NoError(t, err)
		assert.NotEmpty(t, passage.Body)
		assert.Len(t, gen.gotItems, 2)
		assert.Equal(t, 1, gen.gotLevel)

		env.runner.Stop()
	})

	t.Run("no generator configured", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		env.seedItem(t, 1, dueState(now))

		_, err := env.svc.ReadingPassage(context.Background(), now)
		assert.ErrorIs(t, err, ErrGenerationUnavailable)

		env.runner.Stop()
	})

	t.Run("no vocabulary at all", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, &fakeGenerator{})

		_, err := env.svc.ReadingPassage(context.Background(), now)
		assert.ErrorIs(t, err, ErrNoItemsToStudy)

		env.runner.Stop()
	})
}

func TestLoadHydratesFromStores(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(t, nil)

	item, err := domain.NewVocabularyItem("w", "", "m", 1, nil)
	require.NoError(t, err)
	state, err := domain.NewReviewState(item.ID, now)
	require.NoError(t, err)

	require.NoError(t, env.vocab.CreateMultiple(context.Background(), []*domain.VocabularyItem{item}))
	require.NoError(t, env.states.CreateMultiple(context.Background(), []*domain.ReviewState{state}))

	saved := domain.NewLearnerProfile()
	saved.XP = 420
	require.NoError(t, env.profiles.Save(context.Background(), saved))

	require.NoError(t, env.svc.Load(context.Background()))

	assert.Equal(t, 420, env.svc.Profile(context.Background()).XP)
	assert.Len(t, env.svc.vocab, 1)
	assert.Len(t, env.svc.states, 1)

	env.runner.Stop()
}

func TestProfileReturnsCopy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	p := env.svc.Profile(context.Background())
	p.XP = 9999

	assert.Zero(t, env.svc.Profile(context.Background()).XP)
	env.runner.Stop()
}
