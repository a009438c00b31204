package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"macro-watcher-bot/internal/provider"
)

// monday returns a fixed Monday to anchor generated business-day series.
func monday() time.Time {
	return time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
}

// businessDayCloses assigns values to successive business days starting
// at start (which must be a business day).
func businessDayCloses(start time.Time, values ...float64) []provider.Close {
	closes := make([]provider.Close, 0, len(values))
	day := start
	for i, v := range values {
		if i > 0 {
			day = nextBusinessDay(day)
		}
		closes = append(closes, provider.Close{Date: day, Value: v})
	}
	return closes
}

func TestStreakJustStarted(t *testing.T) {
	tests := []struct {
		name   string
		closes []provider.Close
		k      int
		want   bool
	}{
		{
			name:   "exactly k above after a below day",
			closes: businessDayCloses(monday(), 69, 71, 72, 73, 74, 75),
			k:      5,
			want:   true,
		},
		{
			name:   "whole series is the streak",
			closes: businessDayCloses(monday(), 71, 72, 73, 74, 75),
			k:      5,
			want:   true,
		},
		{
			name:   "streak already qualified one session earlier",
			closes: businessDayCloses(monday(), 71, 72, 73, 74, 75, 76),
			k:      5,
			want:   false,
		},
		{
			name:   "value at threshold breaks the streak",
			closes: businessDayCloses(monday(), 69, 71, 70, 73, 74, 75),
			k:      5,
			want:   false,
		},
		{
			name:   "fewer closes than k",
			closes: businessDayCloses(monday(), 71, 72, 73),
			k:      5,
			want:   false,
		},
		{
			name:   "zero k",
			closes: businessDayCloses(monday(), 71, 72, 73, 74, 75),
			k:      0,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := streakJustStarted(tt.closes, 70, tt.k)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStreakJustStarted_GapBreaksStreak(t *testing.T) {
	closes := businessDayCloses(monday(), 69, 71, 72, 73, 74, 75)
	// Skip one business day in the middle of the would-be streak.
	closes[3].Date = nextBusinessDay(closes[3].Date)

	got, _ := streakJustStarted(closes, 70, 5)
	require.False(t, got)
}

func TestStreakJustStarted_WindowIsReturned(t *testing.T) {
	closes := businessDayCloses(monday(), 69, 71, 72, 73, 74, 75)

	got, window := streakJustStarted(closes, 70, 5)
	require.True(t, got)
	require.Len(t, window, 5)
	require.Equal(t, 71.0, window[0].Value)
	require.Equal(t, 75.0, window[4].Value)
}

func TestConsecutiveBusinessDays_SpansWeekend(t *testing.T) {
	friday := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	closes := []provider.Close{
		{Date: friday, Value: 71},
		{Date: nextMonday, Value: 72},
	}
	require.True(t, consecutiveBusinessDays(closes))
}

func TestConsecutiveBusinessDays_WeekendCloseRejected(t *testing.T) {
	saturday := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)

	closes := []provider.Close{{Date: saturday, Value: 71}}
	require.False(t, consecutiveBusinessDays(closes))
}

func TestNextBusinessDay(t *testing.T) {
	friday := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, nextBusinessDay(friday).Weekday())

	tuesday := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, nextBusinessDay(tuesday).Weekday())
}
