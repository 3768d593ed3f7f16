package generation

import (
	"context"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// Generator defines the interface for generating reading passages from
// vocabulary. This interface serves as a boundary between the application
// core and external AI/LLM services, following the hexagonal architecture
// pattern.
type Generator interface {
	// GeneratePassage creates a short reading passage that exercises the
	// provided vocabulary items at the learner's effective level.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - items: The vocabulary items the passage should contain
	//   - level: The learner's effective level, used to bound difficulty
	//
	// Returns:
	//   - A domain.Passage built from the model's response
	//   - An error if the generation fails for any reason (see errors.go for specific types)
	GeneratePassage(ctx context.Context, items []*domain.VocabularyItem, level int) (*domain.Passage, error)
}
