// Package catalog holds the static allow-lists of monitored entities with
// their recode metadata. Only entities present here are retained in output.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Station is the recode entry for a river gauge station: display name and
// basin override. Province is never recoded for stations; the
// upstream-reported value wins.
type Station struct {
	Name  string `json:"name"`
	Basin string `json:"basin"`
}

// Lake is the recode entry for a reservoir: display name, basin, and an
// optional province override.
type Lake struct {
	Name     string `json:"name"`
	Basin    string `json:"basin"`
	Province string `json:"province,omitempty"`
}

// Catalog is the full allow-list configuration, keyed by upstream entity ID.
type Catalog struct {
	Stations map[string]Station `json:"stations"`
	Lakes    map[string]Lake    `json:"lakes"`
}

// Default returns the built-in catalog of monitored central-Vietnam basins.
func Default() Catalog {
	return Catalog{
		Stations: map[string]Station{
			"69702": {Name: "Kon Tum", Basin: "Sê San"},
			"69704": {Name: "Kon Plông", Basin: "Sê San"},
			"71518": {Name: "Phú Ốc", Basin: "Hương - Bồ"},
			"71520": {Name: "Kim Long", Basin: "Hương - Bồ"},
			"71521": {Name: "Cẩm Lệ", Basin: "Vu Gia - Thu Bồn"},
			"71527": {Name: "Ái Nghĩa", Basin: "Vu Gia - Thu Bồn"},
			"71533": {Name: "Hội Khách", Basin: "Vu Gia - Thu Bồn"},
			"71540": {Name: "Trà Khúc", Basin: "Trà Khúc"},
			"71549": {Name: "Bình Nghi", Basin: "Kôn - Hà Thanh"},
			"71558": {Name: "Củng Sơn", Basin: "Ba"},
			"71559": {Name: "Phú Lâm", Basin: "Ba"},
			"71708": {Name: "An Khê", Basin: "Ba"},
			"71709": {Name: "AyunPa", Basin: "Ba"},
		},
		Lakes: map[string]Lake{
			"467D6521-FEAE-40F3-BC73-8E4B0B1F598F": {Name: "Pleikrông", Basin: "Sê San", Province: "Quảng Ngãi"},
			"53e42d94-1faa-4029-93f0-739f8f5da487": {Name: "SeSan4", Basin: "Sê San", Province: "Gia Lai"},
			"A11984FB-8CAD-44D7-BF9E-A0E881483E47": {Name: "Hương Điền", Basin: "Hương - Bồ", Province: "TP. Huế"},
			"EE42CA6E-E5FC-4A9F-B90C-040211672E1B": {Name: "Sông Tranh 2", Basin: "Vu Gia - Thu Bồn", Province: "TP. Đà Nẵng"},
			"545B2C88-D719-42F1-8663-A1E796F44C14": {Name: "Ialy", Basin: "Sê San", Province: "Quảng Ngãi"},
			"A72755CC-49FE-44AF-827D-7010EB7EBCB4": {Name: "Sông Bung 4", Basin: "Vu Gia - Thu Bồn", Province: "TP. Đà Nẵng"},
			"1D320527-2DC9-4C79-A00B-EBB16D44F735": {Name: "Bình Điền", Basin: "Hương - Bồ", Province: "TP. Huế"},
			"fd622826-9f2e-4130-8995-1654bac81895": {Name: "Tả Trạch", Basin: "Hương - Bồ", Province: "TP. Huế"},
			"D0C28BB9-FE47-4BC2-B0DB-445038C1D1C5": {Name: "Sông Hinh", Basin: "Ba", Province: "Đắk Lắk"},
			"7D5B7DB0-D64A-4A36-BD4E-54A95CA62E9D": {Name: "Sông Ba Hạ", Basin: "Ba", Province: "Đắk Lắk"},
			"72659CC3-2BB5-4E34-810E-96722BCE0F54": {Name: "A Vương", Basin: "Vu Gia - Thu Bồn", Province: "TP. Đà Nẵng"},
			"4AB3F3C8-D7F4-44AA-897C-E93BDCFA1DCC": {Name: "Kanak", Basin: "Ba", Province: "Gia Lai"},
			"929f34bb-4d88-4364-8882-4099e75bcfd5": {Name: "Nước Trong", Basin: "Trà Khúc", Province: "Quảng Ngãi"},
			"9CBE33CD-5CFB-4CB9-BAEB-59147A825DF0": {Name: "Ayun Hạ", Basin: "Ba", Province: "Gia Lai"},
			"c9a8c4ca-f1bb-467f-82c4-0999294af8fc": {Name: "Định Bình", Basin: "Kôn - Hà Thanh", Province: "Gia Lai"},
			"4006E5A9-4E5A-4A46-AC19-35F1233E6B4A": {Name: "Thượng Kon Tum", Basin: "Sê San", Province: "Quảng Ngãi"},
			"73bb8be6-bbd6-4042-8360-30abdced336a": {Name: "Ia MLá", Basin: "Ba", Province: "Gia Lai"},
			"9BFF6E76-94E2-4233-B659-258D74A1295F": {Name: "Trà Xom", Basin: "Kôn - Hà Thanh", Province: "Gia Lai"},
			"062A7CF0-46F3-4E99-8BCD-040CEF304344": {Name: "Thuận Ninh", Basin: "Kôn - Hà Thanh", Province: "Gia Lai"},
		},
	}
}

// LoadFile reads a catalog override from a JSON file. Sections left empty in
// the file fall back to the built-in defaults, so a deployment can replace
// just the station list or just the lake list.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	defaults := Default()
	if len(c.Stations) == 0 {
		c.Stations = defaults.Stations
	}
	if len(c.Lakes) == 0 {
		c.Lakes = defaults.Lakes
	}
	return c, nil
}
