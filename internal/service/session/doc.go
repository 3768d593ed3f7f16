// Package session orchestrates study sessions. It owns the authoritative
// in-memory learner profile and review-state collection, runs the
// scheduling and progression engines on grading events, applies streak and
// daily-goal accounting, and hands updated records to the async
// persistence writer. All calendar-day math uses civil dates in the
// configured location so DST shifts cannot double-count or skip a day.
package session
