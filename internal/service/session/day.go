package session

import "time"

// dayAnchor truncates a time to midnight of its civil date in loc. The
// anchor identifies the calendar day DailyProgress counters belong to.
func dayAnchor(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// sameCivilDay reports whether two instants fall on the same calendar day
// in loc. Zero times never match a real day.
func sameCivilDay(a, b time.Time, loc *time.Location) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// civilDaysBetween returns the whole calendar days from a to b in loc.
// The comparison is by date triple re-anchored in UTC, so a DST-shortened
// or -lengthened day still counts as exactly one day.
func civilDaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
