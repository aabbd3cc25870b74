package domain

import "time"

// Window is the closed local-date range a run fetches and retains.
type Window struct {
	Start time.Time // local midnight of the first date
	End   time.Time // local midnight of the last date (today)
}

// ComputeWindow derives the fetch window from the latest timestamp already
// persisted. End is always the current local date. Start is the date of
// last, unless last is zero (no usable prior dataset) or future-dated
// (clock drift in a stale file), in which case the run falls back to
// historyDays of history ending today.
func ComputeWindow(last time.Time, historyDays int) Window {
	end := dateOf(clock.Now().In(LocalZone))
	start := end.AddDate(0, 0, -(historyDays - 1))

	if !last.IsZero() {
		if d := dateOf(last.In(LocalZone)); !d.After(end) {
			start = d
		}
	}
	return Window{Start: start, End: end}
}

// Covers reports whether t's local date falls on or after the window start.
// Rows before the start are already persisted and are excluded from a run's
// incoming set.
func (w Window) Covers(t time.Time) bool {
	return !dateOf(t.In(LocalZone)).Before(w.Start)
}

// Days lists every local date in the window, start through end inclusive.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, LocalZone)
}
