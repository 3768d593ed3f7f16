// Package progression derives the learner's gated proficiency level and
// experience rank from the vocabulary and review-state collections. All
// functions are pure.
package progression

import (
	"github.com/google/uuid"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// MasteryThresholdDays is the interval above which an item counts as
// mastered: the spacing is long enough to signal durable retention.
const MasteryThresholdDays = 21

// LevelCoverageThreshold is the mastered share of a level's curriculum
// required before the next level unlocks.
const LevelCoverageThreshold = 0.8

// curriculumSize holds the fixed per-level curriculum denominators for
// levels 1-5. These are external constants: importing fewer words must not
// inflate the learner's coverage percentage.
var curriculumSize = map[int]int{
	1: 150,
	2: 300,
	3: 600,
	4: 1000,
	5: 1500,
}

// masteryXP is the one-time bonus for pushing an item past the mastery
// threshold, keyed by the item's level tag.
var masteryXP = map[int]int{
	1: 10,
	2: 15,
	3: 20,
	4: 30,
	5: 40,
	6: 50,
}

// Mastered reports whether a review state signals durable retention.
func Mastered(state *domain.ReviewState) bool {
	return state.Interval > MasteryThresholdDays
}

// EffectiveLevel computes the learner's gated proficiency level from the
// full vocabulary and review-state collections. For each level below the
// maximum, coverage is the mastered item count divided by the fixed
// curriculum size for that level; the effective level is the smallest
// level whose coverage falls short of the threshold. A level's gate must
// clear before any higher level is reachable, so the result models
// cumulative curriculum mastery rather than a point sum.
//
// Items without a review state do not count toward mastery; flagging the
// inconsistency is the caller's job.
func EffectiveLevel(vocab []*domain.VocabularyItem, states map[uuid.UUID]*domain.ReviewState) int {
	masteredByLevel := make(map[int]int)
	for _, item := range vocab {
		state, ok := states[item.ID]
		if !ok {
			continue
		}
		if Mastered(state) {
			masteredByLevel[item.Level]++
		}
	}

	for level := domain.MinLevel; level < domain.MaxLevel; level++ {
		coverage := float64(masteredByLevel[level]) / float64(curriculumSize[level])
		if coverage < LevelCoverageThreshold {
			return level
		}
	}

	return domain.MaxLevel
}

// MasteryBonus returns the one-time XP award for a grading event that
// pushed an item across the mastery threshold, and 0 for any other
// before/after pair — including regressions and reviews of items already
// past the threshold. The function keeps no state: the caller must invoke
// it exactly once per grading event with the true pre and post intervals.
func MasteryBonus(oldInterval, newInterval float64, itemLevel int) int {
	if oldInterval > MasteryThresholdDays || newInterval <= MasteryThresholdDays {
		return 0
	}

	return masteryXP[itemLevel]
}

// Rank is a presentational label for an XP total.
type Rank string

// Ranks in ascending order.
const (
	RankNovice     Rank = "Novice"
	RankApprentice Rank = "Apprentice"
	RankAdept      Rank = "Adept"
	RankScholar    Rank = "Scholar"
	RankExpert     Rank = "Expert"
	RankSage       Rank = "Sage"
)

// rankThresholds define the half-open XP ranges [threshold, next) for each
// rank, in ascending order.
var rankThresholds = []struct {
	minXP int
	rank  Rank
}{
	{0, RankNovice},
	{100, RankApprentice},
	{500, RankAdept},
	{1500, RankScholar},
	{3500, RankExpert},
	{7000, RankSage},
}

// XPRank maps an XP total to its rank label. Monotonic in xp.
func XPRank(xp int) Rank {
	rank := rankThresholds[0].rank
	for _, tier := range rankThresholds {
		if xp < tier.minXP {
			break
		}
		rank = tier.rank
	}

	return rank
}
