// Command validate performs integrity checks on exported datasets: the
// combined river/lake CSV and the landslide warning snapshot. It verifies
// key uniqueness, alert consistency, ordering, and timestamp sanity.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -water data/water_data_full_combined.csv \
//	  -landslide data/landslide.csv
//
// Either flag may be omitted to skip that dataset.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/minhtq/floodwatch/internal/adapter/csvstore"
	"github.com/minhtq/floodwatch/internal/domain"
	"github.com/minhtq/floodwatch/internal/merge"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	waterPath := flag.String("water", "", "path to the combined river/lake CSV")
	landslidePath := flag.String("landslide", "", "path to the landslide warning CSV")
	flag.Parse()

	if *waterPath == "" && *landslidePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*waterPath, *landslidePath))
}

func run(waterPath, landslidePath string) int {
	fmt.Println("=== Dataset Integrity Validation ===")
	fmt.Println()

	var phases []*phase
	totalRows := 0

	if waterPath != "" {
		rows, err := csvstore.NewWater(waterPath).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load water dataset: %v\n", err)
			return 1
		}
		totalRows += len(rows)
		phases = append(phases,
			validateWaterKeys(rows),
			validateAlerts(rows),
			validateOrdering(rows),
			validateTimestamps("water timestamp sanity", rows),
		)
	}

	if landslidePath != "" {
		rows, err := csvstore.NewLandslide(landslidePath).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load landslide dataset: %v\n", err)
			return 1
		}
		totalRows += len(rows)
		phases = append(phases,
			validateWarnings(rows),
			validateWarningOrdering(rows),
			validateTimestamps("landslide timestamp sanity", rows),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows validated: %d\n", totalRows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateWaterKeys checks that every (type, entity, timestamp) key appears
// exactly once and that the identifying columns are populated.
func validateWaterKeys(rows []domain.Reading) *phase {
	p := &phase{name: "water key uniqueness"}
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		if r.Type != domain.TypeRiver && r.Type != domain.TypeLake {
			p.errorf("row %d: unexpected type %q", i+1, r.Type)
		}
		if r.EntityID == "" {
			p.errorf("row %d: empty entity id", i+1)
		}
		if r.Name == "" {
			p.errorf("row %d: empty name", i+1)
		}
		key := r.Key()
		if prev, dup := seen[key]; dup {
			p.errorf("row %d: duplicate key %q (first at row %d)", i+1, key, prev)
			continue
		}
		seen[key] = i + 1
	}
	return p
}

// validateAlerts checks that river alert ranks, names, and water levels are
// mutually consistent.
func validateAlerts(rows []domain.Reading) *phase {
	p := &phase{name: "water alert consistency"}
	for i, r := range rows {
		if r.Type != domain.TypeRiver {
			continue
		}
		if r.AlertValue == nil {
			p.errorf("row %d: river reading without alert rank", i+1)
			continue
		}
		rank := *r.AlertValue
		if rank < 0 || rank > 4 {
			p.errorf("row %d: alert rank %d out of range", i+1, rank)
			continue
		}
		if want := domain.AlertName(rank); r.AlertStatus != want {
			p.errorf("row %d: rank %d labeled %q, want %q", i+1, rank, r.AlertStatus, want)
		}
		if rank > 0 && r.WaterLevel == nil {
			p.errorf("row %d: alert rank %d without a water level", i+1, rank)
		}
	}
	return p
}

// validateOrdering checks the display sort: type, then basin, then name,
// then timestamp.
func validateOrdering(rows []domain.Reading) *phase {
	p := &phase{name: "water ordering"}
	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		if a.Type != b.Type {
			if a.Type > b.Type {
				p.errorf("row %d: type %q sorts after %q", i+1, a.Type, b.Type)
			}
			continue
		}
		if a.Basin != b.Basin {
			if a.Basin > b.Basin {
				p.errorf("row %d: basin %q sorts after %q", i+1, a.Basin, b.Basin)
			}
			continue
		}
		if a.Name != b.Name {
			if a.Name > b.Name {
				p.errorf("row %d: name %q sorts after %q", i+1, a.Name, b.Name)
			}
			continue
		}
		if a.Timestamp.After(b.Timestamp) {
			p.errorf("row %d: timestamps out of order for %s", i+1, a.Name)
		}
	}
	return p
}

// validateTimestamps checks that no reading claims a future time.
func validateTimestamps(name string, rows []domain.Reading) *phase {
	p := &phase{name: name}
	now := domain.Now()
	for i, r := range rows {
		if r.Timestamp.IsZero() {
			p.errorf("row %d: zero timestamp", i+1)
			continue
		}
		if r.Timestamp.After(now) {
			p.errorf("row %d: future timestamp %s", i+1, r.Timestamp.Format(domain.TimestampLayout))
		}
	}
	return p
}

// validateWarningOrdering checks that the snapshot keeps its (province,
// commune) display order.
func validateWarningOrdering(rows []domain.Reading) *phase {
	p := &phase{name: "landslide ordering"}
	sorted := make([]domain.Reading, len(rows))
	copy(sorted, rows)
	merge.SortByProvince(sorted)
	for i := range rows {
		if rows[i].EntityID != sorted[i].EntityID {
			p.errorf("row %d: commune %s out of (province, name) order", i+1, rows[i].EntityID)
		}
	}
	return p
}

// validateWarnings checks the landslide snapshot: one row per commune and
// a recognized severity vocabulary.
func validateWarnings(rows []domain.Reading) *phase {
	p := &phase{name: "landslide warnings"}
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		if r.EntityID == "" {
			p.errorf("row %d: empty commune id", i+1)
			continue
		}
		if prev, dup := seen[r.EntityID]; dup {
			p.errorf("row %d: commune %s repeated (first at row %d)", i+1, r.EntityID, prev)
			continue
		}
		seen[r.EntityID] = i + 1

		if r.ErosionRisk == "" && r.FlashFloodRisk == "" {
			p.errorf("row %d: warning without any risk level", i+1)
		}
		for _, risk := range []string{r.ErosionRisk, r.FlashFloodRisk} {
			if risk != "" && domain.SeverityRank(risk) == 0 {
				p.errorf("row %d: unrecognized risk level %q", i+1, risk)
			}
		}
	}
	return p
}
