package normalize

import (
	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/domain"
)

// LakeRecord is one raw reservoir snapshot from the irrigation API.
type LakeRecord struct {
	LakeCode        string      `json:"LakeCode"`
	UpdatedAt       looseString `json:"ThoiGianCapNhat"`
	WaterLevel      *float64    `json:"TdMucNuoc"`
	Trend           string      `json:"XuThe"`
	Volume          *float64    `json:"TdDungTich"`
	DesignVolume    *float64    `json:"TkDungTich"`
	VolumePct       *float64    `json:"TiLeDungTichTdSoTk"`
	Inflow          *float64    `json:"QDen"`
	Outflow         *float64    `json:"QXa"`
	NormalLevel     *float64    `json:"MucNuocDangBinhThuong"`
	ReinforcedLevel *float64    `json:"MucNuocDangGiaCuong"`
	AlertCode       looseString `json:"MucCanhBao"`
	ProvinceCode    looseString `json:"ProvinceCode"`
	ProvinceName    string      `json:"ProvinceName"`
	BasinCode       looseString `json:"BasinCode"`
	X               *float64    `json:"X"`
	Y               *float64    `json:"Y"`
}

// Lake normalizes one reservoir snapshot. Lakes absent from the catalog are
// dropped, as are rows whose update time cannot be parsed (the timestamp is
// part of the dataset key) or falls before the window start. Name and basin
// always come from the catalog; the catalog province wins when set, else the
// upstream-reported province.
func Lake(cat catalog.Catalog, rec LakeRecord, w domain.Window) (domain.Reading, bool) {
	lk, ok := cat.Lakes[rec.LakeCode]
	if !ok {
		return domain.Reading{}, false
	}

	ts, ok := domain.ParseEpochMillis(string(rec.UpdatedAt))
	if !ok {
		return domain.Reading{}, false
	}
	if !w.Covers(ts) {
		return domain.Reading{}, false
	}

	province := lk.Province
	if province == "" {
		province = rec.ProvinceName
	}

	trend := rec.Trend
	if trend == "" {
		trend = "N/A"
	}

	return domain.Reading{
		Type:            domain.TypeLake,
		EntityID:        rec.LakeCode,
		Name:            lk.Name,
		Basin:           lk.Basin,
		Province:        province,
		Timestamp:       ts,
		WaterLevel:      rec.WaterLevel,
		AlertStatus:     trend,
		Volume:          rec.Volume,
		DesignVolume:    rec.DesignVolume,
		VolumePct:       rec.VolumePct,
		Inflow:          rec.Inflow,
		Outflow:         rec.Outflow,
		NormalLevel:     rec.NormalLevel,
		ReinforcedLevel: rec.ReinforcedLevel,
		AlertCode:       string(rec.AlertCode),
		ProvinceCode:    string(rec.ProvinceCode),
		BasinCode:       string(rec.BasinCode),
		X:               rec.X,
		Y:               rec.Y,
	}, true
}
