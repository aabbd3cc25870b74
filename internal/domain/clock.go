package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Window inference and label-year inference both read it; production code
// uses the real clock.
var clock = clockwork.NewRealClock()

// Now returns the current clock time in the feeds' local zone.
func Now() time.Time {
	return clock.Now().In(LocalZone)
}

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
