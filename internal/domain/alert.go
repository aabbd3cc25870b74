package domain

import "math"

// Ladder holds the flood-alert thresholds of a river station: báo động 1-3
// plus the historic flood maximum. Any rung may be absent; upstream encodes
// absence as null or a non-positive value.
type Ladder struct {
	BD1      *float64
	BD2      *float64
	BD3      *float64
	Historic *float64
}

// alertNames maps an alert rank to its upstream-facing Vietnamese label.
var alertNames = map[int]string{
	0: "Dưới BĐ1",
	1: "Trên BĐ1",
	2: "Trên BĐ2",
	3: "Trên BĐ3",
	4: "Trên lũ lịch sử",
}

// AlertName returns the label for a rank, or the unclassified sentinel for
// an unknown rank.
func AlertName(rank int) string {
	if name, ok := alertNames[rank]; ok {
		return name
	}
	return "Không xác định"
}

// Classify ranks a water level against a threshold ladder: 4 at or above the
// historic maximum, 3/2/1 at or above BĐ3/BĐ2/BĐ1, 0 otherwise. The historic
// rung is checked first and wins even when a degenerate ladder places it
// below BĐ3. A nil level ranks 0.
func Classify(level *float64, l Ladder) int {
	if level == nil {
		return 0
	}
	switch {
	case rungPresent(l.Historic) && *level >= *l.Historic:
		return 4
	case rungPresent(l.BD3) && *level >= *l.BD3:
		return 3
	case rungPresent(l.BD2) && *level >= *l.BD2:
		return 2
	case rungPresent(l.BD1) && *level >= *l.BD1:
		return 1
	}
	return 0
}

// AlertDiff reports the signed distance, rounded to 2 decimal places, from
// the level to the threshold that determined rank. At rank 0 the diff is
// computed against BĐ1 when present, reporting headroom below the first
// threshold: inherited upstream behavior, kept even though it mixes alert
// and headroom semantics. Nil when the level is nil or no threshold applies.
func AlertDiff(rank int, level *float64, l Ladder) *float64 {
	if level == nil {
		return nil
	}

	var threshold *float64
	switch rank {
	case 4:
		threshold = l.Historic
	case 3:
		threshold = l.BD3
	case 2:
		threshold = l.BD2
	case 1:
		threshold = l.BD1
	default:
		if rungPresent(l.BD1) {
			threshold = l.BD1
		}
	}
	if threshold == nil {
		return nil
	}

	d := math.Round((*level-*threshold)*100) / 100
	return &d
}

func rungPresent(v *float64) bool {
	return v != nil && *v > 0
}
