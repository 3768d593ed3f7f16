package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/lexigo-app/lexigo-api/internal/config"
	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/generation"
)

// PassageGenerator implements the generation.Generator interface using
// Google's Gemini API to build reading passages around vocabulary items.
type PassageGenerator struct {
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// Ensure PassageGenerator implements generation.Generator
var _ generation.Generator = (*PassageGenerator)(nil)

// NewPassageGenerator creates a new instance of PassageGenerator with the
// provided dependencies. When cfg.PromptTemplatePath is empty the built-in
// prompt template is used.
func NewPassageGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*PassageGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent := defaultPromptTemplate
	if cfg.PromptTemplatePath != "" {
		raw, err := os.ReadFile(cfg.PromptTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
		}
		templateContent = string(raw)
	}

	promptTemplate, err := template.New("passage").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &PassageGenerator{
		logger:         logger.With(slog.String("component", "passage_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GeneratePassage implements generation.Generator.GeneratePassage.
func (g *PassageGenerator) GeneratePassage(
	ctx context.Context,
	items []*domain.VocabularyItem,
	level int,
) (*domain.Passage, error) {
	if len(items) == 0 {
		return nil, generation.ErrEmptyInput
	}
	if level < domain.MinLevel || level > domain.MaxLevel {
		return nil, domain.ErrInvalidLevel
	}

	prompt, err := g.createPrompt(items, level)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, items)
}

// createPrompt renders the prompt template with the vocabulary items and
// the learner's level.
func (g *PassageGenerator) createPrompt(items []*domain.VocabularyItem, level int) (string, error) {
	data := promptData{Level: level, Items: make([]promptVocab, 0, len(items))}
	for _, item := range items {
		data.Items = append(data.Items, promptVocab{
			Text:    item.Text,
			Reading: item.Reading,
			Gloss:   item.Gloss,
		})
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff retry logic.
//
// It attempts the call up to config.MaxRetries+1 times, using exponential
// backoff with jitter between retries for transient errors. Permanent
// errors (like content being blocked by safety filters) are returned
// immediately without retrying.
func (g *PassageGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, err, transient := g.callOnce(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single Gemini request and classifies any failure as
// transient or permanent.
func (g *PassageGenerator) callOnce(ctx context.Context, prompt string) (*responseSchema, error, bool) {
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		// Network and quota failures may resolve on retry.
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err), true
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse), false
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked), false
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse), false
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err), false
	}

	return &parsed, nil, false
}

// parseResponse converts a responseSchema from the Gemini API into a
// domain.Passage targeting the requested items.
func (g *PassageGenerator) parseResponse(
	ctx context.Context,
	response *responseSchema,
	items []*domain.VocabularyItem,
) (*domain.Passage, error) {
	if response == nil {
		return nil, fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}
	if response.Body == "" {
		return nil, fmt.Errorf("%w: passage body is empty", generation.ErrInvalidResponse)
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	passage, err := domain.NewPassage(response.Title, response.Body, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.DebugContext(ctx, "passage generated",
		"passage_id", passage.ID.String(),
		"target_items", len(ids),
		"body_length", len(response.Body))

	return passage, nil
}
