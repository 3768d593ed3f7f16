package srs

import (
	"errors"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// Common errors
var (
	ErrNilState      = errors.New("review state cannot be nil")
	ErrInvalidRating = errors.New("invalid review rating")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// Grade computes the next review state for a graded recall. The input
	// state is never mutated; a new value is returned.
	Grade(state *domain.ReviewState, rating domain.Rating, now time.Time) (*domain.ReviewState, error)

	// SelectDue produces the prioritized, size-limited study queue from
	// the full review-state collection. Read-only.
	SelectDue(states []*domain.ReviewState, now time.Time, newItemCap int) []*domain.ReviewState
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewService creates a scheduling service with default parameters.
func NewService() Service {
	return &defaultService{params: DefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// Grade implements the Service interface.
func (s *defaultService) Grade(
	state *domain.ReviewState,
	rating domain.Rating,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	return nextState(state, rating, now, s.params), nil
}

// SelectDue implements the Service interface.
func (s *defaultService) SelectDue(
	states []*domain.ReviewState,
	now time.Time,
	newItemCap int,
) []*domain.ReviewState {
	return SelectDue(states, now, newItemCap)
}
