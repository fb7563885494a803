package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/model"
)

func TestCompsRoundTrip(t *testing.T) {
	yb := 2015
	lot := 6000
	in := []*model.Comp{{
		Lat:           34.0522,
		Lng:           -118.2437,
		Price:         1_200_000,
		Sqft:          1500,
		PPSF:          800,
		Zone:          model.ZoneR1,
		Zip:           "90012",
		Date:          "2025-03-15",
		YearBuilt:     &yb,
		LotSqft:       &lot,
		Tier:          model.TierNewRemodel,
		RecencyWeight: 0.85,
	}}

	path := filepath.Join(t.TempDir(), "comps.json")
	require.NoError(t, WriteJSON(path, in))

	out, err := LoadComps(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 800, out[0].PPSF)
	assert.Equal(t, model.TierNewRemodel, out[0].Tier)
	assert.InDelta(t, 0.85, out[0].RecencyWeight, 1e-9)
	require.NotNil(t, out[0].YearBuilt)
	assert.Equal(t, 2015, *out[0].YearBuilt)
}

func TestLoadComps_MissingFileIsEmpty(t *testing.T) {
	out, err := LoadComps(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestLoadComps_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comps.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadComps(path)
	require.Error(t, err)
}

func TestApprIndexRoundTrip(t *testing.T) {
	in := model.ApprIndex{
		"91331": {Appr12Mo: 4.2, Appr24Mo: 9.1},
	}
	path := filepath.Join(t.TempDir(), "zhvi.json")
	require.NoError(t, WriteJSON(path, in))

	out, err := LoadApprIndex(path)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, out["91331"].Appr12Mo, 1e-9)
}

func TestFMRIndexRoundTrip(t *testing.T) {
	in := model.FMRIndex{"91331": {FMR3BR: 2750, FMR4BR: 3100}}
	path := filepath.Join(t.TempDir(), "rents.json")
	require.NoError(t, WriteJSON(path, in))

	out, err := LoadFMRIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 2750, out["91331"].FMR3BR)
}

func TestSubdivCompsRoundTrip(t *testing.T) {
	in := []*model.SubdivComp{{
		Lat: 34.21, Lng: -118.44, PPSF: 563, AdjPPSF: 620,
		ClusterID: 1, ClusterSize: 3, ApprPct: 10.1,
	}}
	path := filepath.Join(t.TempDir(), "subdiv_comps.json")
	require.NoError(t, WriteJSON(path, in))

	out, err := LoadSubdivComps(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 620, out[0].AdjPPSF)
	assert.Equal(t, 3, out[0].ClusterSize)
}
