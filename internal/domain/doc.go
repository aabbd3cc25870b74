// Package domain models Vietnamese hydrological telemetry: river gauge
// readings, reservoir status, and landslide/flash-flood warnings.
//
// # Data Sources
//
// River data comes from the VNDMS disaster-monitoring portal
// (vndms.dmptc.gov.vn). Station discovery uses the water_level GeoJSON layers
// (warning levels lv=0..3); per-station history comes from the detailRain
// endpoint as two parallel comma-joined strings of time labels and values.
//
// Reservoir (lake) status comes from the thuyloivietnam irrigation API
// (e15.thuyloivietnam.vn), one snapshot list per requested day.
//
// Landslide warnings come from the NCHMF warning map
// (luquetsatlo.nchmf.gov.vn), one list per forecast request.
//
// # Time Label Conventions
//
// VNDMS station labels carry no year and come in two informal shapes:
//
//	"7h30/12"     →  hour 7, minute 30, day 12; month is the current month.
//	"0h \n15/11"  →  hour 0, day 15, month 11; minute implied zero. The
//	                 separator may be arbitrary whitespace, newlines included.
//
// The day/month shape is tried first because its whitespace separator makes
// it the more specific pattern. When the parsed month is December and the
// current month is January the year rolls back by one, so a rolling window
// crossing New Year attributes December rows to the previous year.
//
// Reservoir update times ("ThoiGianCapNhat") are Unix epoch milliseconds,
// sometimes wrapped in other text; the first run of digits is used.
//
// All timestamps are carried in fixed UTC+7 civil time at minute precision.
// A label that fits neither shape, or names an impossible civil date
// (e.g. 31/11), is unparseable and the row is dropped.
//
// # Alert Classification
//
// Each river station carries a ladder of flood-alert thresholds: báo động 1
// through 3 plus the historic flood maximum. A reading is ranked 0-4 by
// checking the historic level first, then BĐ3, BĐ2, BĐ1; a threshold counts
// only when present (non-null, positive) and the level reaches it. The
// ladder is taken as-is from upstream; no ordering validation is performed,
// so a degenerate ladder where the historic level sits below BĐ3 still ranks
// historic first.
//
// # Landslide Severity Vocabulary
//
// Hazard ratings are ordinal text: "Rất cao" (3) > "Cao" (2) >
// "Trung bình" (1); anything else ranks 0. A commune carries two independent
// ratings, erosion and flash flood; its severity score is the greater.
//
// # Dataset Key
//
// The persisted dataset is keyed by (type, entity_id, timestamp); a fresh
// fetch for an existing key replaces the stored row.
package domain
