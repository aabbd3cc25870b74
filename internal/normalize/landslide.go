package normalize

import (
	"strings"
	"time"

	"github.com/minhtq/floodwatch/internal/domain"
)

// LandslideRecord is one raw commune warning from the NCHMF warning map.
type LandslideRecord struct {
	CommuneID      looseString `json:"commune_id_2cap"`
	CommuneName    string      `json:"commune_name_2cap"`
	ProvinceName   string      `json:"provinceName_2cap"`
	ErosionRisk    string      `json:"nguycosatlo"`
	FlashFloodRisk string      `json:"nguycoluquet"`
}

// Landslide normalizes one commune warning. issuedAt is the run hour the
// warning list was requested for. The "P. " ward prefix is stripped from
// commune names before storage. Records without a commune ID are dropped.
func Landslide(rec LandslideRecord, issuedAt time.Time) (domain.Reading, bool) {
	id := strings.TrimSpace(string(rec.CommuneID))
	if id == "" {
		return domain.Reading{}, false
	}

	name := strings.TrimSpace(rec.CommuneName)
	if rest, ok := strings.CutPrefix(name, "P. "); ok {
		name = strings.TrimSpace(rest)
	}

	return domain.Reading{
		Type:           domain.TypeLandslide,
		EntityID:       id,
		Name:           name,
		Province:       strings.TrimSpace(rec.ProvinceName),
		Timestamp:      issuedAt,
		ErosionRisk:    rec.ErosionRisk,
		FlashFloodRisk: rec.FlashFloodRisk,
	}, true
}
