package comps

import (
	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/spatial"
)

// NeighborhoodCell is the grid cell size in degrees used for neighborhood
// median computation, roughly a third of a mile.
const NeighborhoodCell = 0.005

// minNeighbors is the sample floor before widening the neighbor scan from
// one ring of cells to two.
const minNeighbors = 5

// AssignTiers derives each comp's neighborhood median $/SF and classifies
// it into a condition tier. Comps with no positive-$/SF neighbors are
// compared against themselves and land in tier 2 unless their build year
// alone promotes them.
func AssignTiers(cc []*model.Comp) {
	grid := spatial.Build(cc, NeighborhoodCell)
	for _, c := range cc {
		median := neighborhoodMedian(grid, c)
		c.Tier = ClassifyTier(c.YearBuilt, c.PPSF, median)
	}
}

func neighborhoodMedian(grid *spatial.Grid[*model.Comp], c *model.Comp) int {
	ppsf := neighborPPSFs(grid, c, 1)
	if len(ppsf) < minNeighbors {
		ppsf = neighborPPSFs(grid, c, 2)
	}
	if len(ppsf) == 0 {
		return c.PPSF
	}
	return Median(ppsf)
}

func neighborPPSFs(grid *spatial.Grid[*model.Comp], c *model.Comp, rings int) []int {
	var out []int
	for _, n := range grid.QueryCells(c.Lat, c.Lng, rings) {
		if n != c && n.PPSF > 0 {
			out = append(out, n.PPSF)
		}
	}
	return out
}

// ClassifyTier labels a comp New/Remodel or Existing from its build year
// and its $/SF residual against the neighborhood median. The residual
// thresholds are asymmetric: a comp must trade well above its neighbors to
// read as remodeled, but only modestly below to read as dated stock.
func ClassifyTier(yb *int, ppsf, nbhdMedian int) model.ConditionTier {
	residual := ppsf - nbhdMedian
	old := yb == nil || *yb < 2000

	switch {
	case yb != nil && *yb >= 2015:
		return model.TierNewRemodel
	case residual > 100:
		return model.TierNewRemodel
	case residual < -30 && old:
		return model.TierExisting
	case residual > 30 && old:
		return model.TierNewRemodel
	case yb != nil && *yb >= 2000:
		return model.TierNewRemodel
	default:
		return model.TierExisting
	}
}
