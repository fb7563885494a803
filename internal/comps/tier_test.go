package comps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yardsworth/dealfinder/internal/model"
)

func intp(v int) *int { return &v }

func TestClassifyTier_RecentBuildYearWins(t *testing.T) {
	// 2015+ build year promotes regardless of residual
	assert.Equal(t, model.TierNewRemodel, ClassifyTier(intp(2016), 300, 500))
}

func TestClassifyTier_HighResidual(t *testing.T) {
	// residual 150 > 100 reads as remodeled even with no build year
	assert.Equal(t, model.TierNewRemodel, ClassifyTier(nil, 650, 500))
}

func TestClassifyTier_OldAndCheap(t *testing.T) {
	// residual -50 on pre-2000 stock reads as dated
	assert.Equal(t, model.TierExisting, ClassifyTier(intp(1960), 450, 500))
}

func TestClassifyTier_OldButAboveMarket(t *testing.T) {
	// residual 50 on old stock still reads as remodeled
	assert.Equal(t, model.TierNewRemodel, ClassifyTier(intp(1960), 550, 500))
}

func TestClassifyTier_ModernBuildYear(t *testing.T) {
	// 2000-2014 build year with a flat residual
	assert.Equal(t, model.TierNewRemodel, ClassifyTier(intp(2005), 500, 500))
}

func TestClassifyTier_Default(t *testing.T) {
	assert.Equal(t, model.TierExisting, ClassifyTier(intp(1975), 500, 500))
	assert.Equal(t, model.TierExisting, ClassifyTier(nil, 510, 500))
}

func TestAssignTiers_NeighborhoodResidual(t *testing.T) {
	mk := func(ppsf int) *model.Comp {
		return &model.Comp{Lat: 34.0501, Lng: -118.2501, PPSF: ppsf}
	}
	cc := []*model.Comp{mk(500), mk(500), mk(500), mk(500), mk(500), mk(800)}

	AssignTiers(cc)

	// The 800 comp sees five 500s: residual 300 -> new/remodel.
	assert.Equal(t, model.TierNewRemodel, cc[5].Tier)
	// A 500 comp sees [500 500 500 500 800], median 500, residual 0 -> existing.
	assert.Equal(t, model.TierExisting, cc[0].Tier)
}

func TestAssignTiers_IsolatedCompComparedToItself(t *testing.T) {
	lone := &model.Comp{Lat: 34.20, Lng: -118.40, PPSF: 900}
	AssignTiers([]*model.Comp{lone})

	// No neighbors: median falls back to its own $/SF, residual 0 -> existing.
	assert.Equal(t, model.TierExisting, lone.Tier)
}
