package normalize

import (
	"strings"

	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/domain"
)

// StationMeta is what station discovery knows about a gauge before its
// series is fetched: the label and river name scraped from the map popup
// plus the point coordinates.
type StationMeta struct {
	ID    string
	Name  string
	River string
	X     *float64
	Y     *float64
}

// RiverDetail is the raw detailRain response for one station: threshold
// fields as comma-joined strings and the reading series as two parallel
// comma-joined strings of labels and values.
type RiverDetail struct {
	BD1       string      `json:"bao_dong1"`
	BD2       string      `json:"bao_dong2"`
	BD3       string      `json:"bao_dong3"`
	HistLevel string      `json:"gia_tri_lu_lich_su"`
	HistYear  looseString `json:"nam_lu_lich_su"`
	Labels    string      `json:"labels"`
	Values    string      `json:"value"`
	RiverName string      `json:"river_name"`
	NameVN    string      `json:"name_vn"`
	Province  string      `json:"province_name"`
}

// River normalizes one station's series into canonical readings. Stations
// absent from the catalog are dropped entirely. The catalog name and basin
// recodes take precedence over the upstream-reported values; the province is
// always the upstream value. Only the overlapping prefix of the label and
// value series is processed, rows with unparseable labels are dropped
// silently, and rows dated before the window start are excluded.
func River(cat catalog.Catalog, meta StationMeta, d RiverDetail, w domain.Window) []domain.Reading {
	st, ok := cat.Stations[meta.ID]
	if !ok {
		return nil
	}

	ladder := domain.Ladder{
		BD1:      firstNumber(d.BD1),
		BD2:      firstNumber(d.BD2),
		BD3:      firstNumber(d.BD3),
		Historic: firstNumber(d.HistLevel),
	}

	name := st.Name
	if name == "" {
		name = fallback(d.NameVN, meta.Name)
	}
	basin := st.Basin
	if basin == "" {
		basin = fallback(d.RiverName, meta.River)
	}

	labels := strings.Split(d.Labels, ",")
	values := strings.Split(d.Values, ",")
	n := min(len(labels), len(values))

	var rows []domain.Reading
	for i := 0; i < n; i++ {
		ts, ok := domain.ParseStationLabel(labels[i])
		if !ok {
			continue
		}
		if !w.Covers(ts) {
			continue
		}

		level := parseSeriesValue(values[i])
		rank := domain.Classify(level, ladder)

		rows = append(rows, domain.Reading{
			Type:        domain.TypeRiver,
			EntityID:    meta.ID,
			Name:        name,
			Basin:       basin,
			Province:    d.Province,
			Timestamp:   ts,
			WaterLevel:  level,
			AlertStatus: domain.AlertName(rank),
			AlertValue:  domain.Int(rank),
			AlertDiff:   domain.AlertDiff(rank, level, ladder),
			BD1:         ladder.BD1,
			BD2:         ladder.BD2,
			BD3:         ladder.BD3,
			HistLevel:   ladder.Historic,
			HistYear:    string(d.HistYear),
			X:           meta.X,
			Y:           meta.Y,
		})
	}
	return rows
}

func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
