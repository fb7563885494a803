package arv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardsworth/dealfinder/internal/model"
)

func cellComp(sqft int, slope float64, tier model.ConditionTier) *model.Comp {
	c := lineComp(sqft, slope, tier)
	c.Lat = 34.0011
	c.Lng = -118.2461
	return c
}

func TestBuildSurface_SkipsThinCells(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		cellComp(1500, 500, model.TierExisting),
		cellComp(1600, 500, model.TierExisting),
	}
	assert.Empty(t, BuildSurface(cfg, cc))
}

func TestBuildSurface_PerTierFit(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		cellComp(1000, 600, model.TierNewRemodel),
		cellComp(2000, 600, model.TierNewRemodel),
		cellComp(3000, 600, model.TierNewRemodel),
		cellComp(1000, 400, model.TierExisting),
		cellComp(2000, 400, model.TierExisting),
		cellComp(3000, 400, model.TierExisting),
	}

	clusters := BuildSurface(cfg, cc)
	require.Len(t, clusters, 1)
	cl := clusters[0]

	assert.Equal(t, 6, cl.N)
	assert.Equal(t, 3, cl.T1N)
	assert.Equal(t, 3, cl.T2N)

	require.NotNil(t, cl.T1PSF)
	assert.Equal(t, 600, *cl.T1PSF)
	require.NotNil(t, cl.T2PSF)
	assert.Equal(t, 400, *cl.T2PSF)
	require.NotNil(t, cl.T1Fallback)
	assert.Equal(t, FallbackPerTier, *cl.T1Fallback)
	require.NotNil(t, cl.Premium)
	assert.Equal(t, 200, *cl.Premium)
	assert.Equal(t, 1.0, cl.AvgRecency)
}

func TestBuildSurface_AllCompPremiumFallback(t *testing.T) {
	cfg := DefaultConfig()
	// Five existing-stock comps, no tier-1 sample: the all-comp fit is
	// split by the default premium.
	cc := []*model.Comp{
		cellComp(1000, 500, model.TierExisting),
		cellComp(1500, 500, model.TierExisting),
		cellComp(2000, 500, model.TierExisting),
		cellComp(2500, 500, model.TierExisting),
		cellComp(3000, 500, model.TierExisting),
	}

	clusters := BuildSurface(cfg, cc)
	require.Len(t, clusters, 1)
	cl := clusters[0]

	require.NotNil(t, cl.T1Fallback)
	assert.Equal(t, FallbackAllPremium, *cl.T1Fallback)
	// all-comp fit 500 $/SF, default premium 120 split half each way
	require.NotNil(t, cl.T1PSF)
	assert.Equal(t, 560, *cl.T1PSF)
	require.NotNil(t, cl.T2PSF)
	assert.Equal(t, 440, *cl.T2PSF)
	require.NotNil(t, cl.Premium)
	assert.Equal(t, 120, *cl.Premium)
}

func TestBuildSurface_MedianFallback(t *testing.T) {
	cfg := DefaultConfig()
	// Three same-size comps: every regression is degenerate and the cell
	// falls back to the shaded median.
	cc := []*model.Comp{
		cellComp(1500, 480, model.TierExisting),
		cellComp(1500, 500, model.TierExisting),
		cellComp(1500, 520, model.TierExisting),
	}

	clusters := BuildSurface(cfg, cc)
	require.Len(t, clusters, 1)
	cl := clusters[0]

	require.NotNil(t, cl.T1Fallback)
	assert.Equal(t, FallbackMedian, *cl.T1Fallback)
	// median 500 shaded +-10%
	assert.Equal(t, 550, *cl.T1PSF)
	assert.Equal(t, 450, *cl.T2PSF)
}

func TestBuildSurface_CellIDAndCentroid(t *testing.T) {
	cfg := DefaultConfig()
	cc := []*model.Comp{
		cellComp(1000, 500, model.TierExisting),
		cellComp(2000, 500, model.TierExisting),
		cellComp(3000, 500, model.TierExisting),
	}

	clusters := BuildSurface(cfg, cc)
	require.Len(t, clusters, 1)
	cl := clusters[0]

	// comps sit at (34.0011, -118.2461): cell origin (34.000, -118.250)
	assert.Equal(t, "34.000_-118.250", cl.ID)
	assert.InDelta(t, 34.0025, cl.Lat, 1e-9)
	assert.InDelta(t, -118.2475, cl.Lng, 1e-9)
}

func TestBuildSurface_DeterministicOrder(t *testing.T) {
	cfg := DefaultConfig()
	var cc []*model.Comp
	for _, lat := range []float64{34.0011, 34.0511, 34.1011} {
		for _, sqft := range []int{1000, 2000, 3000} {
			c := lineComp(sqft, 500, model.TierExisting)
			c.Lat = lat
			c.Lng = -118.2461
			cc = append(cc, c)
		}
	}

	first := BuildSurface(cfg, cc)
	second := BuildSurface(cfg, cc)
	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.True(t, first[0].ID < first[1].ID && first[1].ID < first[2].ID)
}
