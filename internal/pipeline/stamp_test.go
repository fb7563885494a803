package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/store"
)

func intp(v int) *int { return &v }
func bp(v bool) *bool { return &v }

func TestStampParcels_LotOverride(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4, LotSqft: intp(6000), Zone: model.ZoneR1}
	parcels := map[string]store.ParcelRecord{
		store.CoordKey(34.2, -118.4): {LotSqft: 7500},
	}

	var stats StampStats
	StampParcels([]*model.Listing{l}, parcels, &stats)

	require.NotNil(t, l.LotSqft)
	assert.Equal(t, 7500, *l.LotSqft)
	assert.Equal(t, 1, stats.ParcelLots)
}

func TestStampParcels_SuspiciousLandLotKept(t *testing.T) {
	// Vacant-land listing at 5,000 SF against a 40,000 SF parcel: a
	// flag-lot artifact, the listed size stands.
	l := &model.Listing{Lat: 34.2, Lng: -118.4, LotSqft: intp(5000), Zone: model.ZoneLand}
	parcels := map[string]store.ParcelRecord{
		store.CoordKey(34.2, -118.4): {LotSqft: 40_000},
	}

	var stats StampStats
	StampParcels([]*model.Listing{l}, parcels, &stats)

	assert.Equal(t, 5000, *l.LotSqft)
	assert.Zero(t, stats.ParcelLots)
}

func TestStampParcels_SitusAddressAndFireZone(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4, Zip: "91331", Address: "listing addr"}
	fz := true
	parcels := map[string]store.ParcelRecord{
		store.CoordKey(34.2, -118.4): {SitusAddress: "12345 FOO ST", FireZone: &fz},
	}

	var stats StampStats
	StampParcels([]*model.Listing{l}, parcels, &stats)

	assert.Equal(t, "12345 FOO ST, 91331", l.Address)
	require.NotNil(t, l.InVHFHSZ)
	assert.True(t, *l.InVHFHSZ)
	assert.Equal(t, 1, stats.ParcelFireZones)
}

func TestStampZoning_UpgradeCounted(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4, Zone: model.ZoneR1}
	zoning := map[string]store.ZoningRecord{
		store.CoordKey(34.2, -118.4): {RawCode: "LAR3", SBZone: model.ZoneR3},
	}

	var stats StampStats
	StampZoning([]*model.Listing{l}, zoning, &stats)

	assert.Equal(t, model.ZoneR3, l.Zone)
	assert.True(t, l.ZoneFixed)
	assert.Equal(t, 1, stats.ZoneUpgrades)
	assert.Zero(t, stats.ZoneDowngrades)
}

func TestStampZoning_DowngradeCounted(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4, Zone: model.ZoneR3}
	zoning := map[string]store.ZoningRecord{
		store.CoordKey(34.2, -118.4): {RawCode: "LAR1", SBZone: model.ZoneR1},
	}

	var stats StampStats
	StampZoning([]*model.Listing{l}, zoning, &stats)

	assert.Equal(t, model.ZoneR1, l.Zone)
	assert.Equal(t, 1, stats.ZoneDowngrades)
}

func TestStampZoning_NoCacheEntryLeavesZone(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4, Zone: model.ZoneR1}

	var stats StampStats
	StampZoning([]*model.Listing{l}, map[string]store.ZoningRecord{}, &stats)

	assert.Equal(t, model.ZoneR1, l.Zone)
	assert.False(t, l.ZoneFixed)
}

func TestStampSlopes(t *testing.T) {
	l := &model.Listing{Lat: 34.2, Lng: -118.4}
	slopes := map[string]float64{store.CoordKey(34.2, -118.4): 7.5}

	var stats StampStats
	StampSlopes([]*model.Listing{l}, slopes, &stats)

	require.NotNil(t, l.SlopePct)
	assert.InDelta(t, 7.5, *l.SlopePct, 1e-9)
	assert.Equal(t, 1, stats.Slopes)
}

func TestStampFireZones_SkipsAlreadyStamped(t *testing.T) {
	stamped := &model.Listing{Lat: 34.2, Lng: -118.4, InVHFHSZ: bp(false)}

	var stats StampStats
	// nil index: the fallback is disabled entirely
	StampFireZones([]*model.Listing{stamped}, nil, &stats)
	assert.Zero(t, stats.FireFallback)
}
