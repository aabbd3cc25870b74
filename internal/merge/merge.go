// Package merge combines freshly fetched readings with the persisted
// dataset, enforcing one row per (type, entity, timestamp).
package merge

import (
	"sort"

	"github.com/minhtq/floodwatch/internal/domain"
)

// Merge unions existing and incoming rows and deduplicates on the dataset
// key. When rows collide the later one in concatenation order wins, so a
// fresh fetch replaces the stored row for the same key even when only
// recode metadata changed. Pass nil existing for a fresh (overwrite) run.
// The result is in display order.
func Merge(existing, incoming []domain.Reading) []domain.Reading {
	combined := make([]domain.Reading, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)

	index := make(map[string]int, len(combined))
	out := make([]domain.Reading, 0, len(combined))
	for _, r := range combined {
		key := r.Key()
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	SortDisplay(out)
	return out
}

// SortDisplay orders rows by (type, basin, name, timestamp). The ordering is
// a readability index for the exported file, not a semantic property.
func SortDisplay(rows []domain.Reading) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Basin != b.Basin {
			return a.Basin < b.Basin
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

// SortByProvince orders rows by (province, name), the display ordering of
// the landslide dataset.
func SortByProvince(rows []domain.Reading) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Province != rows[j].Province {
			return rows[i].Province < rows[j].Province
		}
		return rows[i].Name < rows[j].Name
	})
}
