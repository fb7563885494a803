package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/firezone"
	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/store"
)

// StampStats counts what the cache stamps changed on a listing batch.
type StampStats struct {
	ParcelLots      int `json:"parcel_lots"`
	ParcelFireZones int `json:"parcel_fire_zones"`
	ZoningStamped   int `json:"zoning_stamped"`
	ZoneUpgrades    int `json:"zone_upgrades"`
	ZoneDowngrades  int `json:"zone_downgrades"`
	Slopes          int `json:"slopes"`
	FireFallback    int `json:"fire_fallback"`
}

// StampParcels overlays assessor data onto listings. The parcel lot size
// is authoritative over the listing export, with one exception: a parcel
// lot more than three times the listed lot on a vacant-land listing is
// treated as a flag-lot or sliver-parcel artifact — the listing agent
// knows what is actually for sale — and the listed size is kept.
func StampParcels(listings []*model.Listing, parcels map[string]store.ParcelRecord, stats *StampStats) {
	for _, l := range listings {
		p, ok := parcels[store.CoordKey(l.Lat, l.Lng)]
		if !ok {
			continue
		}

		if p.LotSqft > 0 {
			listedLot := 0
			if l.LotSqft != nil {
				listedLot = *l.LotSqft
			}
			suspicious := listedLot > 0 && p.LotSqft > listedLot*3 && l.Zone == model.ZoneLand
			if !suspicious {
				lot := p.LotSqft
				l.LotSqft = &lot
				stats.ParcelLots++
			}
		}

		if situs := strings.TrimSpace(p.SitusAddress); situs != "" {
			parts := []string{situs}
			if l.Zip != "" {
				parts = append(parts, l.Zip)
			}
			l.Address = strings.Join(parts, ", ")
		}

		if p.FireZone != nil {
			fz := *p.FireZone
			l.InVHFHSZ = &fz
			if fz {
				stats.ParcelFireZones++
			}
		}
	}
}

// StampZoning overrides each listing's property-type-derived zone with
// the planning department's actual zoning where cached. Upgrades (a
// single-family guess that is really multifamily-zoned) matter most:
// they unlock higher unit counts.
func StampZoning(listings []*model.Listing, zoning map[string]store.ZoningRecord, stats *StampStats) {
	for _, l := range listings {
		z, ok := zoning[store.CoordKey(l.Lat, l.Lng)]
		if !ok || z.SBZone == "" {
			continue
		}

		old := l.Zone
		if old != z.SBZone {
			if z.SBZone.IsMultifamilyTrack() && !old.IsMultifamilyTrack() {
				stats.ZoneUpgrades++
			} else if old.IsMultifamilyTrack() && !z.SBZone.IsMultifamilyTrack() {
				stats.ZoneDowngrades++
			}
		}
		l.Zone = z.SBZone
		l.ZoneFixed = true
		stats.ZoningStamped++
	}
}

// StampSlopes attaches cached terrain slope percentages.
func StampSlopes(listings []*model.Listing, slopes map[string]float64, stats *StampStats) {
	for _, l := range listings {
		if pct, ok := slopes[store.CoordKey(l.Lat, l.Lng)]; ok {
			p := pct
			l.SlopePct = &p
			stats.Slopes++
		}
	}
}

// StampFireZones runs the point-in-polygon check for listings the parcel
// cache did not already stamp. The polygon test is the slow path, so the
// cache result wins when present.
func StampFireZones(listings []*model.Listing, idx *firezone.Index, stats *StampStats) {
	if idx == nil {
		return
	}
	for _, l := range listings {
		if l.InVHFHSZ != nil {
			continue
		}
		in := idx.Contains(l.Lat, l.Lng)
		l.InVHFHSZ = &in
		stats.FireFallback++
	}
}

// LogStampStats emits the stamp summary once per run.
func LogStampStats(stats *StampStats, listings int) {
	zap.L().Info("listing caches stamped",
		zap.Int("listings", listings),
		zap.Int("parcel_lots", stats.ParcelLots),
		zap.Int("parcel_fire_zones", stats.ParcelFireZones),
		zap.Int("zoning_stamped", stats.ZoningStamped),
		zap.Int("zone_upgrades", stats.ZoneUpgrades),
		zap.Int("zone_downgrades", stats.ZoneDowngrades),
		zap.Int("slopes", stats.Slopes),
		zap.Int("fire_fallback", stats.FireFallback),
	)
}
