package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating represents the learner's self-graded recall of an item.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// IsValid reports whether the rating is one of the four recognized values.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// DefaultEase is the starting ease multiplier for a freshly imported item.
const DefaultEase = 2.5

// MinEase is the floor below which ease never drops. Without the floor,
// repeated lapses would shrink intervals forever and turn the item into
// review spam.
const MinEase = 1.3

// Common validation errors for ReviewState
var (
	ErrEmptyStateItemID  = errors.New("review state item ID cannot be empty")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrEaseBelowMinimum  = errors.New("ease must be at least 1.3")
	ErrNegativeCounts    = errors.New("review and lapse counts cannot be negative")
	ErrDueAtNotSet       = errors.New("review state due time must be set")
)

// ReviewState tracks the spaced-repetition scheduling state for a single
// vocabulary item. There is exactly one ReviewState per VocabularyItem,
// keyed by the item's ID. A zero LastReviewedAt means the item has never
// been graded.
type ReviewState struct {
	ItemID         uuid.UUID `json:"item_id"`
	Ease           float64   `json:"ease"`             // growth multiplier, >= 1.3
	Interval       float64   `json:"interval"`         // days until next review, may be fractional
	DueAt          time.Time `json:"due_at"`           // when the item next becomes eligible
	ReviewCount    int       `json:"review_count"`     // completed grading events, never decreases
	LapseCount     int       `json:"lapse_count"`      // "again" events, never decreases
	LastReviewedAt time.Time `json:"last_reviewed_at"` // zero if never reviewed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewState creates scheduling state for a newly imported item.
// The dueAt seed is chosen by the import layer: batch index offsets keep
// intra-import ordering stable in the due-item selector's tie-break.
func NewReviewState(itemID uuid.UUID, dueAt time.Time) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		ItemID:         itemID,
		Ease:           DefaultEase,
		Interval:       0,
		DueAt:          dueAt,
		ReviewCount:    0,
		LapseCount:     0,
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.ItemID == uuid.Nil {
		return ErrEmptyStateItemID
	}

	if s.Interval < 0 {
		return ErrInvalidInterval
	}

	if s.Ease < MinEase {
		return ErrEaseBelowMinimum
	}

	if s.ReviewCount < 0 || s.LapseCount < 0 {
		return ErrNegativeCounts
	}

	if s.DueAt.IsZero() {
		return ErrDueAtNotSet
	}

	return nil
}

// Reviewed reports whether the item has been graded at least once.
func (s *ReviewState) Reviewed() bool {
	return s.ReviewCount > 0
}
