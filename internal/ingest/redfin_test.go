package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

var laBounds = comps.Bounds{LatMin: 33.70, LatMax: 34.85, LngMin: -118.95, LngMax: -117.55}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

const soldHeader = "SOLD DATE,PROPERTY TYPE,ADDRESS,CITY,ZIP OR POSTAL CODE,PRICE,BEDS,BATHS,SQUARE FEET,LOT SIZE,YEAR BUILT,LATITUDE,LONGITUDE"

func TestReadSoldComps(t *testing.T) {
	path := writeCSV(t, soldHeader,
		"2025-03-15,Single Family Residential,123 Main St,Los Angeles,90012,1200000,3,2,1500,6000,2015,34.0522,-118.2437",
		"2025-03-15,Single Family Residential,1 Market St,San Francisco,94105,2000000,3,2,1500,3000,2010,37.7749,-122.4194",
		",Single Family Residential,456 Oak Ave,Los Angeles,90012,900000,3,2,1400,5000,1960,34.0600,-118.2500",
	)

	n := &comps.Normalizer{Bounds: laBounds, Now: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	out, counts, err := ReadSoldComps(context.Background(), path, n)
	require.NoError(t, err)

	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 1, counts.Kept)
	assert.Equal(t, 1, counts.Bad)
	assert.Equal(t, 1, counts.NoDate)

	require.Len(t, out, 1)
	c := out[0]
	// 1,200,000 / 1,500 = 800 $/SF.
	assert.Equal(t, 800, c.PPSF)
	assert.Equal(t, model.ZoneR1, c.Zone)
	assert.Equal(t, "90012", c.Zip)
	require.NotNil(t, c.LotSqft)
	assert.Equal(t, 6000, *c.LotSqft)
}

func TestReadSoldComps_MissingFile(t *testing.T) {
	n := &comps.Normalizer{Bounds: laBounds, Now: time.Now()}
	_, _, err := ReadSoldComps(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), n)
	require.Error(t, err)
}

const listingHeader = "STATUS,PROPERTY TYPE,ADDRESS,CITY,ZIP OR POSTAL CODE,PRICE,BEDS,BATHS,SQUARE FEET,LOT SIZE,YEAR BUILT,LATITUDE,LONGITUDE"

func TestReadListings(t *testing.T) {
	path := writeCSV(t, listingHeader,
		"Active,Single Family Residential,123 Main St,Los Angeles,91331,950000,3,2,1400,7000,1955,34.2000,-118.4500",
		"Sold,Single Family Residential,9 Gone St,Los Angeles,91331,800000,3,2,1200,6000,1950,34.2100,-118.4400",
		"Active,Vacant Land,0 Dirt Rd,Sylmar,91342,500000,,,0,15000,,34.3000,-118.4200",
		"Active,Single Family Residential,7 Free St,Los Angeles,91331,0,3,2,1300,6000,1950,34.2050,-118.4450",
	)

	out, err := ReadListings(context.Background(), path, laBounds)
	require.NoError(t, err)
	require.Len(t, out, 2)

	house := out[0]
	assert.Equal(t, model.ZoneR1, house.Zone)
	assert.Equal(t, model.PropSFR, house.PropType)
	assert.Equal(t, 950_000, house.Price)
	require.NotNil(t, house.Sqft)
	assert.Equal(t, 1400, *house.Sqft)
	require.NotNil(t, house.LotSqft)
	assert.Equal(t, 7000, *house.LotSqft)
	require.NotNil(t, house.YearBuilt)
	assert.Equal(t, 1955, *house.YearBuilt)
	assert.Equal(t, "123 Main St, Los Angeles, 91331", house.Address)

	land := out[1]
	assert.Equal(t, model.ZoneLand, land.Zone)
	assert.Nil(t, land.Sqft)
	require.NotNil(t, land.LotSqft)
	assert.Equal(t, 15_000, *land.LotSqft)
}

func TestReadListings_ZeroSqftNonLandDropped(t *testing.T) {
	path := writeCSV(t, listingHeader,
		"Active,Single Family Residential,123 Main St,Los Angeles,91331,950000,3,2,0,7000,1955,34.2000,-118.4500",
	)

	out, err := ReadListings(context.Background(), path, laBounds)
	require.NoError(t, err)
	assert.Empty(t, out)
}

const rentalHeader = "STATUS,PROPERTY TYPE,ADDRESS,CITY,ZIP OR POSTAL CODE,PRICE,BEDS,BATHS,SQUARE FEET,LATITUDE,LONGITUDE,FRESHNESS TIMESTAMP"

func TestReadRentalComps(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	path := writeCSV(t, rentalHeader,
		"Active,Single Family Residential,456 Oak Ave,Panorama City,91402,3200,3,2,1300,34.2200,-118.4400,2026-05-01T00:00:00Z",
		"Active,Single Family Residential,9 Old St,Panorama City,91402,3100,3,2,1250,34.2210,-118.4410,2025-06-01T00:00:00Z",
		"Active,Condo/Co-op,1 Cheap St,Los Angeles,90012,100,1,1,600,34.0500,-118.2500,2026-05-01T00:00:00Z",
		"Active,Single Family Residential,2 Rich St,Los Angeles,90012,25000,5,4,4000,34.0510,-118.2510,2026-05-01T00:00:00Z",
		"Active,Townhouse,3 Blank St,Los Angeles,90012,2600,2,2,1100,34.0520,-118.2520,",
	)

	out, err := ReadRentalComps(context.Background(), path, laBounds, now)
	require.NoError(t, err)
	// Stale, below-floor, and above-ceiling rows drop; the row with no
	// freshness stamp is kept.
	require.Len(t, out, 2)

	r := out[0]
	assert.Equal(t, 3200, r.Rent)
	assert.Equal(t, model.PropSFR, r.PropType)
	require.NotNil(t, r.Beds)
	assert.Equal(t, 3, *r.Beds)
	require.NotNil(t, r.Sqft)
	assert.Equal(t, 1300, *r.Sqft)
	assert.Equal(t, "456 Oak Ave Panorama City CA 91402", r.Address)

	assert.Equal(t, 2600, out[1].Rent)
}

func TestReadRentalComps_TinyUnitDropped(t *testing.T) {
	path := writeCSV(t, rentalHeader,
		"Active,Condo/Co-op,1 Shoe Box,Los Angeles,90012,1500,1,1,80,34.0500,-118.2500,",
	)

	out, err := ReadRentalComps(context.Background(), path, laBounds, time.Now())
	require.NoError(t, err)
	assert.Empty(t, out)
}
