package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo-app/lexigo-api/internal/domain"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
)

// fakeSessionService is a scriptable session.Service for handler tests.
type fakeSessionService struct {
	queue      []session.QueueEntry
	queueErr   error
	grade      *session.GradeResult
	gradeErr   error
	profile    *domain.LearnerProfile
	imported   int
	importErr  error
	passage    *domain.Passage
	passageErr error
	removeErr  error

	gotItemID uuid.UUID
	gotRating domain.Rating
	removed   uuid.UUID
}

func (f *fakeSessionService) StudyQueue(ctx context.Context, now time.Time) ([]session.QueueEntry, error) {
	return f.queue, f.queueErr
}

func (f *fakeSessionService) ApplyGrading(
	ctx context.Context,
	itemID uuid.UUID,
	rating domain.Rating,
	now time.Time,
) (*session.GradeResult, error) {
	f.gotItemID = itemID
	f.gotRating = rating
	return f.grade, f.gradeErr
}

func (f *fakeSessionService) CompleteReading(ctx context.Context, now time.Time) (*domain.LearnerProfile, error) {
	return f.profile, nil
}

func (f *fakeSessionService) CompleteSpeaking(
	ctx context.Context,
	accuracy float64,
	hasAccuracy bool,
	now time.Time,
) (*domain.LearnerProfile, error) {
	return f.profile, nil
}

func (f *fakeSessionService) ImportVocabulary(
	ctx context.Context,
	items []*domain.VocabularyItem,
	now time.Time,
) (int, error) {
	if f.importErr != nil {
		return 0, f.importErr
	}
	f.imported = len(items)
	return len(items), nil
}

func (f *fakeSessionService) RemoveVocabulary(ctx context.Context, itemID uuid.UUID) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = itemID
	return nil
}

func (f *fakeSessionService) ReadingPassage(ctx context.Context, now time.Time) (*domain.Passage, error) {
	return f.passage, f.passageErr
}

func (f *fakeSessionService) Profile(ctx context.Context) *domain.LearnerProfile {
	return f.profile
}

func testQueueEntry(t *testing.T) session.QueueEntry {
	t.Helper()
	item, err := domain.NewVocabularyItem("word", "", "meaning", 1, nil)
	require.NoError(t, err)
	state, err := domain.NewReviewState(item.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return session.QueueEntry{Item: item, State: state}
}

func TestGetStudyQueue(t *testing.T) {
	t.Parallel()

	t.Run("returns entries", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{queue: []session.QueueEntry{testQueueEntry(t)}}
		handler := NewStudyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.GetStudyQueue(rec, httptest.NewRequest(http.MethodGet, "/study/queue", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body []QueueEntryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "word", body[0].Item.Text)
	})

	t.Run("empty queue is 204", func(t *testing.T) {
		t.Parallel()
		handler := NewStudyHandler(&fakeSessionService{}, slog.Default())

		rec := httptest.NewRecorder()
		handler.GetStudyQueue(rec, httptest.NewRequest(http.MethodGet, "/study/queue", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("consistency failure is 500 without details", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{queueErr: session.ErrStateMissing}
		handler := NewStudyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.GetStudyQueue(rec, httptest.NewRequest(http.MethodGet, "/study/queue", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "review state missing")
	})
}

func gradeRequest(t *testing.T, itemID uuid.UUID, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/study/items/"+itemID.String()+"/grade",
		bytes.NewBufferString(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", itemID.String())
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSubmitGrade(t *testing.T) {
	t.Parallel()

	itemID := uuid.New()
	profile := domain.NewLearnerProfile()
	profile.XP = 10
	state := &domain.ReviewState{ItemID: itemID, Ease: 2.5, Interval: 1, DueAt: time.Now()}

	t.Run("accepts a valid rating", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{grade: &session.GradeResult{
			Profile:   profile,
			State:     state,
			AwardedXP: 10,
		}}
		handler := NewStudyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.SubmitGrade(rec, gradeRequest(t, itemID, `{"rating":"good"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, itemID, svc.gotItemID)
		assert.Equal(t, domain.RatingGood, svc.gotRating)

		var body GradeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 10, body.AwardedXP)
		assert.Equal(t, "Novice", body.Profile.Rank)
	})

	t.Run("rejects an unknown rating before the service", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{}
		handler := NewStudyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.SubmitGrade(rec, gradeRequest(t, itemID, `{"rating":"perfect"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, uuid.Nil, svc.gotItemID, "service must not be called")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()
		handler := NewStudyHandler(&fakeSessionService{}, slog.Default())

		rec := httptest.NewRecorder()
		handler.SubmitGrade(rec, gradeRequest(t, itemID, `{`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{gradeErr: session.ErrItemNotFound}
		handler := NewStudyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.SubmitGrade(rec, gradeRequest(t, itemID, `{"rating":"good"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid path id is 400", func(t *testing.T) {
		t.Parallel()
		handler := NewStudyHandler(&fakeSessionService{}, slog.Default())

		r := httptest.NewRequest(http.MethodPost, "/study/items/not-a-uuid/grade",
			bytes.NewBufferString(`{"rating":"good"}`))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "not-a-uuid")
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		rec := httptest.NewRecorder()
		handler.SubmitGrade(rec, r)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestImportVocabulary(t *testing.T) {
	t.Parallel()

	t.Run("accepts a batch", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{}
		handler := NewVocabularyHandler(svc, slog.Default())

		body := `{"items":[{"text":"猫","reading":"ねこ","gloss":"cat","level":1},{"text":"犬","gloss":"dog","level":2}]}`
		rec := httptest.NewRecorder()
		handler.ImportVocabulary(rec, httptest.NewRequest(http.MethodPost, "/vocabulary/import",
			bytes.NewBufferString(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp ImportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Imported)
		assert.Equal(t, 2, svc.imported)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		t.Parallel()
		handler := NewVocabularyHandler(&fakeSessionService{}, slog.Default())

		rec := httptest.NewRecorder()
		handler.ImportVocabulary(rec, httptest.NewRequest(http.MethodPost, "/vocabulary/import",
			bytes.NewBufferString(`{"items":[]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects out-of-range level", func(t *testing.T) {
		t.Parallel()
		handler := NewVocabularyHandler(&fakeSessionService{}, slog.Default())

		rec := httptest.NewRecorder()
		handler.ImportVocabulary(rec, httptest.NewRequest(http.MethodPost, "/vocabulary/import",
			bytes.NewBufferString(`{"items":[{"text":"x","gloss":"y","level":9}]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate import is 409", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{importErr: session.ErrDuplicateItem}
		handler := NewVocabularyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.ImportVocabulary(rec, httptest.NewRequest(http.MethodPost, "/vocabulary/import",
			bytes.NewBufferString(`{"items":[{"text":"x","gloss":"y","level":1}]}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func deleteRequest(t *testing.T, id string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodDelete, "/vocabulary/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestDeleteVocabulary(t *testing.T) {
	t.Parallel()

	t.Run("deletes an item", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{}
		handler := NewVocabularyHandler(svc, slog.Default())

		itemID := uuid.New()
		rec := httptest.NewRecorder()
		handler.DeleteVocabulary(rec, deleteRequest(t, itemID.String()))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, itemID, svc.removed)
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		t.Parallel()
		svc := &fakeSessionService{removeErr: session.ErrItemNotFound}
		handler := NewVocabularyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		handler.DeleteVocabulary(rec, deleteRequest(t, uuid.New().String()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		t.Parallel()
		handler := NewVocabularyHandler(&fakeSessionService{}, slog.Default())

		rec := httptest.NewRecorder()
		handler.DeleteVocabulary(rec, deleteRequest(t, "not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompleteSpeaking(t *testing.T) {
	t.Parallel()

	profile := domain.NewLearnerProfile()

	t.Run("accepts accuracy", func(t *testing.T) {
		t.Parallel()
		handler := NewActivityHandler(&fakeSessionService{profile: profile}, slog.Default())

		rec := httptest.NewRecorder()
		handler.CompleteSpeaking(rec, httptest.NewRequest(http.MethodPost, "/speaking/complete",
			bytes.NewBufferString(`{"accuracy":0.85}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("accepts missing accuracy", func(t *testing.T) {
		t.Parallel()
		handler := NewActivityHandler(&fakeSessionService{profile: profile}, slog.Default())

		rec := httptest.NewRecorder()
		handler.CompleteSpeaking(rec, httptest.NewRequest(http.MethodPost, "/speaking/complete",
			bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects accuracy above 1", func(t *testing.T) {
		t.Parallel()
		handler := NewActivityHandler(&fakeSessionService{profile: profile}, slog.Default())

		rec := httptest.NewRecorder()
		handler.CompleteSpeaking(rec, httptest.NewRequest(http.MethodPost, "/speaking/complete",
			bytes.NewBufferString(`{"accuracy":1.2}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReadingPassage(t *testing.T) {
	t.Parallel()

	t.Run("returns passage", func(t *testing.T) {
		t.Parallel()
		passage, err := domain.NewPassage("Pets", "a short text", []uuid.UUID{uuid.New()})
		require.NoError(t, err)
		handler := NewActivityHandler(&fakeSessionService{passage: passage}, slog.Default())

		rec := httptest.NewRecorder()
		handler.GetReadingPassage(rec, httptest.NewRequest(http.MethodGet, "/reading/passage", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp PassageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a short text", resp.Body)
		assert.Len(t, resp.TargetItems, 1)
	})

	t.Run("no generator configured is 501", func(t *testing.T) {
		t.Parallel()
		handler := NewActivityHandler(&fakeSessionService{passageErr: session.ErrGenerationUnavailable},
			slog.Default())

		rec := httptest.NewRecorder()
		handler.GetReadingPassage(rec, httptest.NewRequest(http.MethodGet, "/reading/passage", nil))

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	profile := domain.NewLearnerProfile()
	profile.XP = 600
	profile.StreakDays = 3
	handler := NewProfileHandler(&fakeSessionService{profile: profile}, slog.Default())

	rec := httptest.NewRecorder()
	handler.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 600, resp.XP)
	assert.Equal(t, "Adept", resp.Rank)
	assert.Equal(t, 3, resp.StreakDays)
}
