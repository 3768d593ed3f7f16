package session

import (
	"math"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// Fixed XP awards.
const (
	// StreakBonusXP is granted on the first qualifying action of a new
	// calendar day.
	StreakBonusXP = 10

	// ReadingGoalXP is granted when the one-shot daily reading goal is
	// completed.
	ReadingGoalXP = 15

	// FlashcardGoalXP is granted when the graded-review count reaches the
	// configured daily target.
	FlashcardGoalXP = 20

	// SpeakingDefaultXP is granted for a speaking session with no measured
	// accuracy.
	SpeakingDefaultXP = 10

	// SpeakingMaxXP is the accuracy-scaled ceiling for a speaking session.
	SpeakingMaxXP = 20
)

// resetDailyIfStale zeroes the daily counters when their Day anchor is not
// today. A stale anchor is expected state after an idle day, never an error.
func resetDailyIfStale(profile *domain.LearnerProfile, now time.Time, loc *time.Location) {
	if sameCivilDay(profile.DailyProgress.Day, now, loc) {
		return
	}
	profile.DailyProgress = domain.DailyProgress{Day: dayAnchor(now, loc)}
}

// touchActivity applies the streak rule for a qualifying action at now and
// returns the XP awarded. The first action of a new calendar day extends
// the streak when exactly one day has elapsed and resets it to 1 (not 0)
// otherwise, awarding the streak bonus either way. Repeat actions on the
// same day change nothing. LastActivityAt always advances.
func touchActivity(profile *domain.LearnerProfile, now time.Time, loc *time.Location) int {
	last := profile.LastActivityAt
	profile.LastActivityAt = now

	if sameCivilDay(last, now, loc) {
		return 0
	}

	if !last.IsZero() && civilDaysBetween(last, now, loc) == 1 {
		profile.StreakDays++
	} else {
		profile.StreakDays = 1
	}

	return StreakBonusXP
}

// speakingXP scores a speaking session. Accuracy is a fraction in [0, 1];
// out-of-range values are clamped. With no measured accuracy the fixed
// default applies.
func speakingXP(accuracy float64, hasAccuracy bool) int {
	if !hasAccuracy {
		return SpeakingDefaultXP
	}

	clamped := math.Max(0, math.Min(1, accuracy))
	return int(math.Round(clamped * SpeakingMaxXP))
}
