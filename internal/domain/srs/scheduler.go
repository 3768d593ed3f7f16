package srs

import (
	"math"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// nextEase determines the new ease multiplier for a rating. Ease models
// long-term retention confidence; the floor prevents runaway shrinkage.
// Easy has no upper clamp.
func nextEase(currentEase float64, rating domain.Rating, params *Params) float64 {
	var ease float64
	switch rating {
	case domain.RatingAgain:
		ease = currentEase + params.AgainEaseDelta
	case domain.RatingHard:
		ease = currentEase + params.HardEaseDelta
	case domain.RatingEasy:
		ease = currentEase + params.EasyEaseDelta
	default: // Good leaves ease unchanged
		ease = currentEase
	}

	if ease < params.MinEase {
		ease = params.MinEase
	}

	return ease
}

// nextInterval determines the new interval in days for a rating.
// Intervals of 0 and 1 are the two learning steps: a Good or Easy rating
// graduates them through fixed steps before the multiplicative regime
// takes over. Growth uses the pre-grading ease: the Easy ease reward only
// affects the following review. Hard uses its own fixed factor with a
// one-day floor.
func nextInterval(currentInterval, ease float64, rating domain.Rating, params *Params) float64 {
	switch rating {
	case domain.RatingAgain:
		return 0

	case domain.RatingHard:
		interval := currentInterval * params.HardIntervalFactor
		if interval < 1 {
			interval = 1
		}
		return interval

	case domain.RatingEasy:
		switch currentInterval {
		case 0:
			return params.EasyGraduatingInterval
		case 1:
			return params.EasySecondInterval
		default:
			return math.Round(currentInterval * ease * params.EasyIntervalFactor)
		}

	default: // Good
		switch currentInterval {
		case 0:
			return params.GoodGraduatingInterval
		case 1:
			return params.GoodSecondInterval
		default:
			return math.Round(currentInterval * ease)
		}
	}
}

// projectDue converts an interval into the absolute due time. An interval
// of 0 means short-term relearn: the item comes back after the relearn
// window rather than a day multiple.
func projectDue(interval float64, now time.Time, params *Params) time.Time {
	if interval == 0 {
		return now.Add(time.Duration(params.RelearnMinutes) * time.Minute)
	}

	return now.Add(time.Duration(interval * 24 * float64(time.Hour)))
}

// nextState computes the full post-grading state as a new value. The input
// state is never mutated.
func nextState(state *domain.ReviewState, rating domain.Rating, now time.Time, params *Params) *domain.ReviewState {
	newState := *state

	newState.Ease = nextEase(state.Ease, rating, params)
	newState.Interval = nextInterval(state.Interval, state.Ease, rating, params)
	newState.DueAt = projectDue(newState.Interval, now, params)

	if rating == domain.RatingAgain {
		newState.LapseCount++
	}

	newState.ReviewCount++
	newState.LastReviewedAt = now
	newState.UpdatedAt = now

	return &newState
}
