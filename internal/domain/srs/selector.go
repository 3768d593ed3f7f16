package srs

import (
	"sort"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/domain"
)

// NoNewItemCap disables the new-item throttle in SelectDue: the full
// sorted due sequence is returned.
const NoNewItemCap = -1

// SelectDue produces the prioritized study queue from the full review-state
// collection. Items due at or before now are ordered by lapse count
// descending (struggling items surface first) and then due time ascending
// (oldest due first, preserving relative import order among untouched
// items). The sort is stable, so any remaining ties keep their input order.
//
// newItemCap throttles only the introduction of brand-new material: when
// bounded, the result contains every due item that has been reviewed
// before, plus at most newItemCap never-reviewed items, each group keeping
// its relative order. Previously seen items are never starved by the cap.
//
// The input slice is not modified.
func SelectDue(states []*domain.ReviewState, now time.Time, newItemCap int) []*domain.ReviewState {
	due := make([]*domain.ReviewState, 0, len(states))
	for _, s := range states {
		if !s.DueAt.After(now) {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].LapseCount != due[j].LapseCount {
			return due[i].LapseCount > due[j].LapseCount
		}
		return due[i].DueAt.Before(due[j].DueAt)
	})

	if newItemCap == NoNewItemCap {
		return due
	}

	result := make([]*domain.ReviewState, 0, len(due))
	newItems := 0
	for _, s := range due {
		if !s.Reviewed() {
			if newItems >= newItemCap {
				continue
			}
			newItems++
		}
		result = append(result, s)
	}

	return result
}
