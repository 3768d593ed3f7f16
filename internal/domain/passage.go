package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Passage-specific validation errors
var (
	ErrPassageBodyEmpty  = errors.New("passage body cannot be empty")
	ErrPassageNoTargets  = errors.New("passage must target at least one vocabulary item")
)

// Passage is a short AI-generated reading text built around a set of
// target vocabulary items. Passages are produced by the generation
// collaborator and are never persisted by the core.
type Passage struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	TargetItems []uuid.UUID `json:"target_items"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewPassage creates a passage with a fresh ID and timestamp.
// Returns an error if validation fails.
func NewPassage(title, body string, targetItems []uuid.UUID) (*Passage, error) {
	passage := &Passage{
		ID:          uuid.New(),
		Title:       title,
		Body:        body,
		TargetItems: targetItems,
		CreatedAt:   time.Now().UTC(),
	}

	if err := passage.Validate(); err != nil {
		return nil, err
	}

	return passage, nil
}

// Validate checks if the Passage has valid data.
func (p *Passage) Validate() error {
	if p.Body == "" {
		return ErrPassageBodyEmpty
	}

	if len(p.TargetItems) == 0 {
		return ErrPassageNoTargets
	}

	return nil
}
