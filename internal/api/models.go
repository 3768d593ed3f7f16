// Package api provides HTTP handlers for the API.
package api

import (
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/domain/progression"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
)

// VocabularyItemResponse represents a vocabulary item in API responses.
type VocabularyItemResponse struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Reading string   `json:"reading,omitempty"`
	Gloss   string   `json:"gloss"`
	Level   int      `json:"level"`
	Tags    []string `json:"tags,omitempty"`
}

// ReviewStateResponse represents scheduling state in API responses.
type ReviewStateResponse struct {
	Ease        float64   `json:"ease"`
	Interval    float64   `json:"interval_days"`
	DueAt       time.Time `json:"due_at"`
	ReviewCount int       `json:"review_count"`
	LapseCount  int       `json:"lapse_count"`
}

// QueueEntryResponse is one study-queue position.
type QueueEntryResponse struct {
	Item  VocabularyItemResponse `json:"item"`
	State ReviewStateResponse    `json:"state"`
}

// DailyProgressResponse reports today's goal completion.
type DailyProgressResponse struct {
	Day                   time.Time `json:"day"`
	FlashcardsDone        bool      `json:"flashcards_done"`
	ReadingDone           bool      `json:"reading_done"`
	SpeakingDone          bool      `json:"speaking_done"`
	ReviewsCompletedToday int       `json:"reviews_completed_today"`
}

// ProfileResponse represents the learner profile in API responses.
type ProfileResponse struct {
	EffectiveLevel int                   `json:"effective_level"`
	XP             int                   `json:"xp"`
	Rank           string                `json:"rank"`
	StreakDays     int                   `json:"streak_days"`
	LastActivityAt *time.Time            `json:"last_activity_at,omitempty"`
	DailyProgress  DailyProgressResponse `json:"daily_progress"`
}

// GradeRequest is the body for grading a recalled item.
type GradeRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// GradeResponse reports the outcome of a grading event.
type GradeResponse struct {
	Profile      ProfileResponse     `json:"profile"`
	State        ReviewStateResponse `json:"state"`
	AwardedXP    int                 `json:"awarded_xp"`
	MasteryBonus int                 `json:"mastery_bonus"`
}

// ImportItemRequest is a single vocabulary entry in an import batch.
type ImportItemRequest struct {
	Text    string   `json:"text"    validate:"required"`
	Reading string   `json:"reading"`
	Gloss   string   `json:"gloss"   validate:"required"`
	Level   int      `json:"level"   validate:"required,gte=1,lte=6"`
	Tags    []string `json:"tags"`
}

// ImportRequest is the body for importing a vocabulary batch.
type ImportRequest struct {
	Items []ImportItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ImportResponse reports an accepted import batch.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// SpeakingRequest is the body for recording a speaking session. Accuracy
// is optional; when absent a fixed default XP applies.
type SpeakingRequest struct {
	Accuracy *float64 `json:"accuracy" validate:"omitempty,gte=0,lte=1"`
}

// PassageResponse represents a generated reading passage.
type PassageResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Body        string   `json:"body"`
	TargetItems []string `json:"target_items"`
}

func itemToResponse(item *domain.VocabularyItem) VocabularyItemResponse {
	return VocabularyItemResponse{
		ID:      item.ID.String(),
		Text:    item.Text,
		Reading: item.Reading,
		Gloss:   item.Gloss,
		Level:   item.Level,
		Tags:    item.Tags,
	}
}

func stateToResponse(state *domain.ReviewState) ReviewStateResponse {
	return ReviewStateResponse{
		Ease:        state.Ease,
		Interval:    state.Interval,
		DueAt:       state.DueAt,
		ReviewCount: state.ReviewCount,
		LapseCount:  state.LapseCount,
	}
}

func profileToResponse(profile *domain.LearnerProfile) ProfileResponse {
	resp := ProfileResponse{
		EffectiveLevel: profile.EffectiveLevel,
		XP:             profile.XP,
		Rank:           string(progression.XPRank(profile.XP)),
		StreakDays:     profile.StreakDays,
		DailyProgress: DailyProgressResponse{
			Day:                   profile.DailyProgress.Day,
			FlashcardsDone:        profile.DailyProgress.FlashcardsDone,
			ReadingDone:           profile.DailyProgress.ReadingDone,
			SpeakingDone:          profile.DailyProgress.SpeakingDone,
			ReviewsCompletedToday: profile.DailyProgress.ReviewsCompletedToday,
		},
	}
	if !profile.LastActivityAt.IsZero() {
		t := profile.LastActivityAt
		resp.LastActivityAt = &t
	}
	return resp
}

func queueToResponse(entries []session.QueueEntry) []QueueEntryResponse {
	out := make([]QueueEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, QueueEntryResponse{
			Item:  itemToResponse(entry.Item),
			State: stateToResponse(entry.State),
		})
	}
	return out
}

func passageToResponse(passage *domain.Passage) PassageResponse {
	targets := make([]string, 0, len(passage.TargetItems))
	for _, id := range passage.TargetItems {
		targets = append(targets, id.String())
	}
	return PassageResponse{
		ID:          passage.ID.String(),
		Title:       passage.Title,
		Body:        passage.Body,
		TargetItems: targets,
	}
}
