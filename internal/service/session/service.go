package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/domain/progression"
)

// QueueEntry pairs a due review state with its vocabulary item for
// presentation.
type QueueEntry struct {
	Item  *domain.VocabularyItem `json:"item"`
	State *domain.ReviewState    `json:"state"`
}

// GradeResult reports the outcome of a single grading event.
type GradeResult struct {
	Profile      *domain.LearnerProfile `json:"profile"`
	State        *domain.ReviewState    `json:"state"`
	AwardedXP    int                    `json:"awarded_xp"`
	MasteryBonus int                    `json:"mastery_bonus"`
	Rank         progression.Rank       `json:"rank"`
}

// Service orchestrates study sessions over the authoritative in-memory
// learner profile and review-state collection. Mutating operations return
// fresh values; persistence is fired afterwards through the async writer
// and never blocks or rolls back in-memory state.
type Service interface {
	// StudyQueue produces the prioritized due-item queue joined with
	// vocabulary items. Read-only.
	// Returns ErrStateMissing if a vocabulary item has no review state.
	StudyQueue(ctx context.Context, now time.Time) ([]QueueEntry, error)

	// ApplyGrading processes a graded recall of the given item: it runs
	// the scheduler, awards mastery and streak XP, updates daily-goal
	// accounting, and recomputes the effective level.
	// Returns ErrItemNotFound, ErrStateMissing or ErrInvalidRating.
	ApplyGrading(ctx context.Context, itemID uuid.UUID, rating domain.Rating, now time.Time) (*GradeResult, error)

	// CompleteReading records a finished reading session. The daily
	// reading goal is one-shot: XP is awarded at most once per day.
	CompleteReading(ctx context.Context, now time.Time) (*domain.LearnerProfile, error)

	// CompleteSpeaking records a finished speaking session. Not flag
	// gated: every session scores XP, proportional to accuracy when one
	// was measured.
	CompleteSpeaking(ctx context.Context, accuracy float64, hasAccuracy bool, now time.Time) (*domain.LearnerProfile, error)

	// ImportVocabulary adds a batch of items, seeding one review state
	// per item with due times offset by batch index so the selector
	// preserves intra-import order. The batch persists transactionally
	// before the in-memory collection is extended.
	// Returns ErrDuplicateItem if an item ID already exists.
	ImportVocabulary(ctx context.Context, items []*domain.VocabularyItem, now time.Time) (int, error)

	// RemoveVocabulary deletes an item and its review state. The deletion
	// persists before the in-memory collections are touched.
	// Returns ErrItemNotFound if the item does not exist.
	RemoveVocabulary(ctx context.Context, itemID uuid.UUID) error

	// ReadingPassage asks the generation collaborator for a passage built
	// from the current due and recently reviewed vocabulary. Generation
	// failures never touch profile state.
	// Returns ErrGenerationUnavailable when no generator is configured.
	ReadingPassage(ctx context.Context, now time.Time) (*domain.Passage, error)

	// Profile returns a copy of the current learner profile.
	Profile(ctx context.Context) *domain.LearnerProfile
}
