package domain

import "time"

// LocalZone is the fixed UTC+7 offset all timestamps are carried in.
// Vietnam has no daylight saving, so a fixed offset is exact and keeps the
// exporter independent of the host tzdata.
var LocalZone = time.FixedZone("+07", 7*60*60)

// TimestampLayout is the minute-precision civil-time format used for the
// dataset key and the persisted timestamp column.
const TimestampLayout = "2006-01-02 15:04"

// ReadingType discriminates the three monitored entity kinds.
type ReadingType string

const (
	TypeRiver     ReadingType = "River"
	TypeLake      ReadingType = "Lake"
	TypeLandslide ReadingType = "Landslide"
)

// Reading is one normalized observation row. River, lake, and landslide
// sources populate different subsets of the optional fields; the shared
// identity fields and the (Type, EntityID, Timestamp) key are common.
type Reading struct {
	Type      ReadingType
	EntityID  string
	Name      string
	Basin     string
	Province  string
	Timestamp time.Time

	WaterLevel *float64

	// River alert classification.
	AlertStatus string
	AlertValue  *int
	AlertDiff   *float64
	BD1         *float64
	BD2         *float64
	BD3         *float64
	HistLevel   *float64
	HistYear    string

	// Lake volumetric and flow fields.
	Volume          *float64
	DesignVolume    *float64
	VolumePct       *float64
	Inflow          *float64
	Outflow         *float64
	NormalLevel     *float64
	ReinforcedLevel *float64
	AlertCode       string
	ProvinceCode    string
	BasinCode       string

	// Landslide hazard ratings.
	ErosionRisk    string
	FlashFloodRisk string

	X *float64
	Y *float64
}

// Key returns the dataset primary key for this reading.
func (r Reading) Key() string {
	return string(r.Type) + "|" + r.EntityID + "|" + r.Timestamp.Format(TimestampLayout)
}

// MaxTimestamp returns the latest timestamp among rows, or the zero time
// when rows is empty.
func MaxTimestamp(rows []Reading) time.Time {
	var maxTS time.Time
	for _, r := range rows {
		if r.Timestamp.After(maxTS) {
			maxTS = r.Timestamp
		}
	}
	return maxTS
}

// Float returns a pointer to v, for literal optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for literal optional fields.
func Int(v int) *int { return &v }
