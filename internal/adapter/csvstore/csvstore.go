// Package csvstore persists reading datasets as BOM-prefixed UTF-8 CSV
// files, the format downstream spreadsheet tools expect. The byte-order
// mark keeps Vietnamese diacritics intact when files are opened in Excel.
//
// The store takes no lock: concurrent runs against the same path are
// undefined behavior and must be serialized by the caller's scheduler.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minhtq/floodwatch/internal/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WaterColumns is the persisted column order of the water dataset. River
// columns come first, then the lake-only columns, mirroring the upstream
// export this file replaces.
var WaterColumns = []string{
	"type",
	"Mã trạm/LakeCode",
	"Trạm/Hồ",
	"Tên sông/Lưu vực",
	"Tên tỉnh",
	"Thời gian (UTC)",
	"Mực nước (m)",
	"Cảnh báo/Xu thế",
	"Cảnh báo value (0-4)",
	"Chênh lệch cảnh báo (m)",
	"BĐ1 (m)",
	"BĐ2 (m)",
	"BĐ3 (m)",
	"Mực nước lịch sử (m)",
	"Năm lũ lịch sử",
	"x",
	"y",
	"Dung tích (m3)",
	"Dung tích TK (m3)",
	"Tỷ lệ dung tích (%)",
	"Q đến (m3/s)",
	"Q xả (m3/s)",
	"Mực nước BT (m)",
	"Mực nước GC (m)",
	"Mã Cảnh báo",
	"province_code",
	"basin_code",
}

// landslideColumns is the persisted column order of the landslide dataset,
// kept byte-identical to the upstream export's header.
var landslideColumns = []string{
	"time",
	"commune_id_2cap",
	"commune_name_2cap",
	"provinceName_2cap",
	"nguycosatlo",
	"nguycoluquet",
}

// landslideTimeLayout is the second-precision format of the landslide time
// column (the run hour).
const landslideTimeLayout = "2006-01-02 15:04:05"

// WaterStore reads and writes the combined river/lake dataset.
type WaterStore struct {
	path string
}

// NewWater creates a store over the given CSV path.
func NewWater(path string) *WaterStore {
	return &WaterStore{path: path}
}

// Path returns the dataset file path.
func (s *WaterStore) Path() string { return s.path }

// Load reads the persisted dataset. A missing file surfaces as an
// fs.ErrNotExist-wrapping error (a fresh run); any structural problem —
// wrong header, malformed CSV, unparseable timestamps — is a load error the
// caller recovers from by falling back to overwrite mode.
func (s *WaterStore) Load() ([]domain.Reading, error) {
	records, err := readCSV(s.path, WaterColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Reading, 0, len(records))
	for i, rec := range records {
		ts, err := time.ParseInLocation(domain.TimestampLayout, rec[5], domain.LocalZone)
		if err != nil {
			return nil, fmt.Errorf("load dataset: row %d: bad timestamp %q", i+1, rec[5])
		}
		rows = append(rows, domain.Reading{
			Type:            domain.ReadingType(rec[0]),
			EntityID:        rec[1],
			Name:            rec[2],
			Basin:           rec[3],
			Province:        rec[4],
			Timestamp:       ts,
			WaterLevel:      parseFloatCell(rec[6]),
			AlertStatus:     rec[7],
			AlertValue:      parseIntCell(rec[8]),
			AlertDiff:       parseFloatCell(rec[9]),
			BD1:             parseFloatCell(rec[10]),
			BD2:             parseFloatCell(rec[11]),
			BD3:             parseFloatCell(rec[12]),
			HistLevel:       parseFloatCell(rec[13]),
			HistYear:        rec[14],
			X:               parseFloatCell(rec[15]),
			Y:               parseFloatCell(rec[16]),
			Volume:          parseFloatCell(rec[17]),
			DesignVolume:    parseFloatCell(rec[18]),
			VolumePct:       parseFloatCell(rec[19]),
			Inflow:          parseFloatCell(rec[20]),
			Outflow:         parseFloatCell(rec[21]),
			NormalLevel:     parseFloatCell(rec[22]),
			ReinforcedLevel: parseFloatCell(rec[23]),
			AlertCode:       rec[24],
			ProvinceCode:    rec[25],
			BasinCode:       rec[26],
		})
	}
	return rows, nil
}

// Write replaces the dataset file with rows, preserving column order and
// the BOM encoding.
func (s *WaterStore) Write(rows []domain.Reading) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, WaterRecord(r))
	}
	return writeCSV(s.path, WaterColumns, records)
}

// WaterRecord renders one reading in WaterColumns order. Exporters that
// mirror the dataset in other formats reuse it so the schemas never drift.
func WaterRecord(r domain.Reading) []string {
	return []string{
		string(r.Type),
		r.EntityID,
		r.Name,
		r.Basin,
		r.Province,
		r.Timestamp.Format(domain.TimestampLayout),
		formatFloatCell(r.WaterLevel),
		r.AlertStatus,
		formatIntCell(r.AlertValue),
		formatFloatCell(r.AlertDiff),
		formatFloatCell(r.BD1),
		formatFloatCell(r.BD2),
		formatFloatCell(r.BD3),
		formatFloatCell(r.HistLevel),
		r.HistYear,
		formatFloatCell(r.X),
		formatFloatCell(r.Y),
		formatFloatCell(r.Volume),
		formatFloatCell(r.DesignVolume),
		formatFloatCell(r.VolumePct),
		formatFloatCell(r.Inflow),
		formatFloatCell(r.Outflow),
		formatFloatCell(r.NormalLevel),
		formatFloatCell(r.ReinforcedLevel),
		r.AlertCode,
		r.ProvinceCode,
		r.BasinCode,
	}
}

// LandslideStore reads and writes the landslide warning dataset.
// Unlike the water dataset it is overwritten every run.
type LandslideStore struct {
	path string
}

// NewLandslide creates a store over the given CSV path.
func NewLandslide(path string) *LandslideStore {
	return &LandslideStore{path: path}
}

// Path returns the dataset file path.
func (s *LandslideStore) Path() string { return s.path }

// Write replaces the warning file with rows. An empty rows slice still
// produces a header-only file so downstream consumers see the schema.
func (s *LandslideStore) Write(rows []domain.Reading) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Timestamp.Format(landslideTimeLayout),
			r.EntityID,
			r.Name,
			r.Province,
			r.ErosionRisk,
			r.FlashFloodRisk,
		})
	}
	return writeCSV(s.path, landslideColumns, records)
}

// Load reads the warning file back into readings.
func (s *LandslideStore) Load() ([]domain.Reading, error) {
	records, err := readCSV(s.path, landslideColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Reading, 0, len(records))
	for i, rec := range records {
		ts, err := time.ParseInLocation(landslideTimeLayout, rec[0], domain.LocalZone)
		if err != nil {
			return nil, fmt.Errorf("load dataset: row %d: bad timestamp %q", i+1, rec[0])
		}
		rows = append(rows, domain.Reading{
			Type:           domain.TypeLandslide,
			EntityID:       rec[1],
			Name:           rec[2],
			Province:       rec[3],
			Timestamp:      ts,
			ErosionRisk:    rec[4],
			FlashFloodRisk: rec[5],
		})
	}
	return rows, nil
}

func readCSV(path string, columns []string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	data = bytes.TrimPrefix(data, bom)

	reader := csv.NewReader(bytes.NewReader(data))
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("load dataset: %s: empty file", path)
	}
	if !equalHeader(all[0], columns) {
		return nil, fmt.Errorf("load dataset: %s: unexpected header", path)
	}
	return all[1:], nil
}

func writeCSV(path string, columns []string, records [][]string) error {
	var buf bytes.Buffer
	buf.Write(bom)

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func parseFloatCell(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseIntCell tolerates float-formatted integers ("2.0"), which appear in
// files produced by earlier toolchains.
func parseIntCell(cell string) *int {
	v := parseFloatCell(cell)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func formatFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
