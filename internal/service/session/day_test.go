package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameCivilDay(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 03:00 UTC is still the previous evening in New York.
	late := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	priorEvening := time.Date(2025, 3, 9, 18, 0, 0, 0, loc)

	assert.True(t, sameCivilDay(late, priorEvening, loc))
	assert.False(t, sameCivilDay(late, priorEvening, time.UTC))

	assert.False(t, sameCivilDay(time.Time{}, late, loc), "zero time never matches a day")
}

func TestCivilDaysBetween(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2025, 6, 1, 8, 0, 0, 0, loc),
			b:    time.Date(2025, 6, 1, 23, 0, 0, 0, loc),
			want: 0,
		},
		{
			name: "adjacent days minutes apart",
			a:    time.Date(2025, 6, 1, 23, 59, 0, 0, loc),
			b:    time.Date(2025, 6, 2, 0, 1, 0, 0, loc),
			want: 1,
		},
		{
			name: "spring forward is still one day",
			a:    time.Date(2025, 3, 8, 12, 0, 0, 0, loc),
			b:    time.Date(2025, 3, 9, 12, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "fall back is still one day",
			a:    time.Date(2025, 11, 1, 12, 0, 0, 0, loc),
			b:    time.Date(2025, 11, 2, 12, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "month boundary",
			a:    time.Date(2025, 5, 31, 22, 0, 0, 0, loc),
			b:    time.Date(2025, 6, 2, 2, 0, 0, 0, loc),
			want: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, civilDaysBetween(tc.a, tc.b, loc))
		})
	}
}

func TestDayAnchor(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	anchor := dayAnchor(time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC), loc)

	// 15:30 UTC is 00:30 on June 2 in Tokyo.
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, loc), anchor)
}
