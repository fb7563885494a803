package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The enriched-listing JSON keys are read by the map frontend and deck
// generator; renaming any of them breaks those consumers.
func TestListing_WireFieldNames(t *testing.T) {
	sqft := 1400
	lot := 15_000
	exit := 720
	newcon := 810
	subdivExit := 700
	appr := 4.2
	rent := 3400
	radius := 0.48

	l := &Listing{
		Lat:     34.20,
		Lng:     -118.45,
		Zip:     "91331",
		Zone:    ZoneR1,
		Price:   950_000,
		Sqft:    &sqft,
		LotSqft: &lot,

		ExitPSF:    &exit,
		CompMethod: "zone",
		CompCount:  7,
		CompRadius: &radius,

		NewConPSF:       &newcon,
		NewConCount:     3,
		NewConTier:      "newest_2y",
		NewConZoneMatch: true,
		NewConFlag:      "sanity-high",

		SubdivExitPSF:   &subdivExit,
		SubdivCompCount: 4,
		SubdivAvgAppr:   &appr,

		EstRentMonth:  &rent,
		RentMethod:    "comps",
		RentCompCount: 5,
	}

	data, err := json.Marshal(l)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))

	for _, want := range []string{
		"lat", "lng", "zip", "zone", "price", "sqft", "lotSf",
		"exitPsf", "compMethod", "compCount", "compRadius",
		"newconPpsf", "newconCount", "newconTier", "newconZoneMatch", "newconFlag",
		"subdivExitPsf", "subdivCompCount", "subdivAvgAppr",
		"estRentMonth", "rentMethod", "rentCompCount",
	} {
		assert.Contains(t, keys, want)
	}
	assert.NotContains(t, keys, "exit_psf")
	assert.NotContains(t, keys, "lot")
}
