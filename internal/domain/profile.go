package domain

import (
	"errors"
	"time"
)

// Profile-specific validation errors
var (
	ErrNegativeXP         = errors.New("xp cannot be negative")
	ErrNegativeStreak     = errors.New("streak days cannot be negative")
	ErrNegativeReviews    = errors.New("reviews completed today cannot be negative")
	ErrInvalidEffective   = errors.New("effective level must be between 1 and 6")
)

// DailyProgress tracks goal completion for a single calendar day.
// The Day anchor is the civil date (truncated to midnight in the learner's
// location) the counters belong to; a stale anchor forces a zeroed reset
// before any new accounting is applied.
type DailyProgress struct {
	Day                   time.Time `json:"day"`
	FlashcardsDone        bool      `json:"flashcards_done"`
	ReadingDone           bool      `json:"reading_done"`
	SpeakingDone          bool      `json:"speaking_done"`
	ReviewsCompletedToday int       `json:"reviews_completed_today"`
}

// LearnerProfile is the single per-learner progression record. It is
// created once with zero values and mutated (as a fresh copy) on every
// graded review or completed activity; it is never destroyed.
type LearnerProfile struct {
	EffectiveLevel int           `json:"effective_level"` // derived, gated, 1-6
	XP             int           `json:"xp"`              // never decreases
	StreakDays     int           `json:"streak_days"`
	LastActivityAt time.Time     `json:"last_activity_at"` // zero if never active
	DailyProgress  DailyProgress `json:"daily_progress"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewLearnerProfile creates a profile with default zero values, as built
// at first use.
func NewLearnerProfile() *LearnerProfile {
	now := time.Now().UTC()
	return &LearnerProfile{
		EffectiveLevel: MinLevel,
		XP:             0,
		StreakDays:     0,
		LastActivityAt: time.Time{},
		DailyProgress:  DailyProgress{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks if the LearnerProfile has valid data.
// Returns an error if any field fails validation.
func (p *LearnerProfile) Validate() error {
	if p.EffectiveLevel < MinLevel || p.EffectiveLevel > MaxLevel {
		return ErrInvalidEffective
	}

	if p.XP < 0 {
		return ErrNegativeXP
	}

	if p.StreakDays < 0 {
		return ErrNegativeStreak
	}

	if p.DailyProgress.ReviewsCompletedToday < 0 {
		return ErrNegativeReviews
	}

	return nil
}
