package watcher

import (
	"time"

	"macro-watcher-bot/internal/provider"
)

// Exchange holidays are not modeled; a holiday gap resets the streak,
// which can only delay an alert.
func isBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func nextBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for !isBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// consecutiveBusinessDays reports whether every close falls on a business
// day and each one is the business day right after the previous one.
func consecutiveBusinessDays(closes []provider.Close) bool {
	for i, c := range closes {
		if !isBusinessDay(c.Date) {
			return false
		}
		if i > 0 && !sameDay(c.Date, nextBusinessDay(closes[i-1].Date)) {
			return false
		}
	}
	return true
}

func allAbove(closes []provider.Close, threshold float64) bool {
	for _, c := range closes {
		if c.Value <= threshold {
			return false
		}
	}
	return true
}

// streakJustStarted reports whether the last k closes form a streak of
// consecutive business days above the threshold that did not already
// qualify one session earlier. The returned window is the streak itself.
func streakJustStarted(closes []provider.Close, threshold float64, k int) (bool, []provider.Close) {
	if k <= 0 || len(closes) < k {
		return false, nil
	}
	window := closes[len(closes)-k:]
	if !consecutiveBusinessDays(window) || !allAbove(window, threshold) {
		return false, window
	}
	if len(closes) > k {
		extended := closes[len(closes)-k-1:]
		if consecutiveBusinessDays(extended) && allAbove(extended, threshold) {
			return false, window
		}
	}
	return true, window
}
