package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Proficiency level bounds for vocabulary items and learner profiles.
const (
	MinLevel = 1
	MaxLevel = 6
)

// Vocabulary-specific validation errors
var (
	// ErrVocabularyIDEmpty is returned when a vocabulary item ID is empty or nil.
	ErrVocabularyIDEmpty = errors.New("vocabulary item ID cannot be empty")

	// ErrVocabularyTextEmpty is returned when the target-script text is empty.
	ErrVocabularyTextEmpty = errors.New("vocabulary item text cannot be empty")

	// ErrVocabularyGlossEmpty is returned when the gloss is empty.
	ErrVocabularyGlossEmpty = errors.New("vocabulary item gloss cannot be empty")
)

// VocabularyItem is a single word or phrase the learner studies.
// Items are owned by the import layer and are immutable from the
// scheduler's perspective; scheduling state lives in ReviewState,
// keyed by the item's ID.
type VocabularyItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`    // target-script form
	Reading   string    `json:"reading"` // phonetic reading, may be empty
	Gloss     string    `json:"gloss"`   // meaning in the learner's language
	Level     int       `json:"level"`   // curriculum level tag, 1-6
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewVocabularyItem creates a vocabulary item with a fresh ID and timestamps.
// Returns an error if validation fails.
func NewVocabularyItem(text, reading, gloss string, level int, tags []string) (*VocabularyItem, error) {
	now := time.Now().UTC()
	item := &VocabularyItem{
		ID:        uuid.New(),
		Text:      text,
		Reading:   reading,
		Gloss:     gloss,
		Level:     level,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the VocabularyItem has valid data.
// Returns an error if any field fails validation.
func (v *VocabularyItem) Validate() error {
	if v.ID == uuid.Nil {
		return ErrVocabularyIDEmpty
	}

	if v.Text == "" {
		return ErrVocabularyTextEmpty
	}

	if v.Gloss == "" {
		return ErrVocabularyGlossEmpty
	}

	if v.Level < MinLevel || v.Level > MaxLevel {
		return ErrInvalidLevel
	}

	return nil
}
