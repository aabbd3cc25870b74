package domain

import (
	"sort"
	"strings"
)

// severityRanks is the ordinal vocabulary for landslide hazard ratings.
// Unrecognized text ranks 0.
var severityRanks = map[string]int{
	"Rất cao":    3,
	"Cao":        2,
	"Trung bình": 1,
}

// SeverityRank maps a hazard rating label to its ordinal rank.
func SeverityRank(label string) int {
	return severityRanks[strings.TrimSpace(label)]
}

// SeverityScore is a warning's overall severity: the greater of its erosion
// and flash-flood ranks.
func SeverityScore(r Reading) int {
	erosion := SeverityRank(r.ErosionRisk)
	flood := SeverityRank(r.FlashFloodRisk)
	if flood > erosion {
		return flood
	}
	return erosion
}

// DedupBySeverity collapses landslide warnings to one row per commune,
// keeping the highest-scoring row. Rows are stably sorted by (province,
// name) first, so when scores tie the first row in that order survives;
// the output keeps the same ordering.
func DedupBySeverity(rows []Reading) []Reading {
	sorted := make([]Reading, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Province != sorted[j].Province {
			return sorted[i].Province < sorted[j].Province
		}
		return sorted[i].Name < sorted[j].Name
	})

	index := make(map[string]int, len(sorted))
	out := make([]Reading, 0, len(sorted))
	for _, r := range sorted {
		if i, ok := index[r.EntityID]; ok {
			if SeverityScore(r) > SeverityScore(out[i]) {
				out[i] = r
			}
			continue
		}
		index[r.EntityID] = len(out)
		out = append(out, r)
	}
	return out
}
