package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// labelDayMonthRe matches the newer station label shape
	// "<hour>h <day>/<month>", e.g. "0h \n15/11". The whitespace separator
	// (often a literal newline in the JSON) makes this the more specific
	// pattern, so it is tried first.
	labelDayMonthRe = regexp.MustCompile(`(\d{1,2})h\s+(\d{1,2})/(\d{1,2})`)

	// labelMinuteDayRe matches the older shape "<hour>h<minute>/<day>",
	// e.g. "7h30/12"; the month is implied to be the current month.
	labelMinuteDayRe = regexp.MustCompile(`(\d{1,2})h(\d{1,2})/(\d{1,2})`)

	// digitRunRe extracts the first run of digits from an epoch-millisecond
	// field that may be wrapped in other text.
	digitRunRe = regexp.MustCompile(`\d+`)
)

// ParseStationLabel resolves a VNDMS station time label to a UTC+7 civil
// timestamp. The year is never part of the label: it is taken from the
// current local year, rolled back by one when a December label is read in
// January. The second result is false when the label fits neither known
// shape or names an impossible date; callers drop such rows.
func ParseStationLabel(label string) (time.Time, bool) {
	clean := strings.TrimSpace(label)
	if clean == "" {
		return time.Time{}, false
	}

	now := clock.Now().In(LocalZone)

	if m := labelDayMonthRe.FindStringSubmatch(clean); m != nil {
		hour := mustInt(m[1])
		day := mustInt(m[2])
		month := mustInt(m[3])

		year := now.Year()
		if month == 12 && now.Month() == time.January {
			year--
		}
		if t, ok := civilTime(year, month, day, hour, 0); ok {
			return t, true
		}
	}

	if m := labelMinuteDayRe.FindStringSubmatch(clean); m != nil {
		hour := mustInt(m[1])
		minute := mustInt(m[2])
		day := mustInt(m[3])

		if t, ok := civilTime(now.Year(), int(now.Month()), day, hour, minute); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseEpochMillis interprets the first run of digits in raw as Unix epoch
// milliseconds and converts to UTC+7. Returns false when no digits are
// present.
func ParseEpochMillis(raw string) (time.Time, bool) {
	digits := digitRunRe.FindString(raw)
	if digits == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).In(LocalZone), true
}

// civilTime builds a UTC+7 timestamp, rejecting field combinations that
// time.Date would silently normalize (e.g. day 31 in a 30-day month rolling
// into the next month).
func civilTime(year, month, day, hour, minute int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, LocalZone)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// mustInt converts a regexp digit capture; the patterns guarantee 1-2 digits.
func mustInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
