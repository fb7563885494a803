package arv

import (
	"fmt"
	"math"
	"sort"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// Fallback levels recorded on a cluster's tier-1 estimate, best first.
const (
	FallbackPerTier    = 0 // per-cell per-tier regression
	FallbackAllPremium = 1 // all-comp regression split by measured premium
	FallbackMedian     = 3 // cell median shaded ±10%
)

// Cluster is the fitted estimate surface for one grid cell.
type Cluster struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	N   int `json:"n"`
	T1N int `json:"t1n"`
	T2N int `json:"t2n"`

	T1PSF   *int `json:"t1psf,omitempty"`
	T1Price *int `json:"t1price,omitempty"`
	T1Std   *int `json:"t1std,omitempty"`
	T2PSF   *int `json:"t2psf,omitempty"`
	T2Price *int `json:"t2price,omitempty"`
	T2Std   *int `json:"t2std,omitempty"`

	// T1Fallback is set whenever T1PSF is set.
	T1Fallback *int `json:"t1fb,omitempty"`

	// Premium is the tier-1 over tier-2 spread when both are priced.
	Premium *int `json:"prem,omitempty"`

	// AvgRecency is the mean recency weight of the cell's comps, a rough
	// confidence signal for the estimate.
	AvgRecency float64 `json:"rw"`
}

func intp(v int) *int { return &v }

// BuildSurface groups comps into grid cells and fits a size curve per
// condition tier in each cell, cascading through fallbacks when a tier is
// too thin to fit. Cells below the comp floor are skipped entirely.
// Cluster order is deterministic (sorted by cell ID).
func BuildSurface(cfg Config, cc []*model.Comp) []*Cluster {
	type cell struct {
		comps    []*model.Comp
		lat, lng float64
	}

	cells := make(map[string]*cell)
	for _, c := range cc {
		cr := math.Floor(c.Lat / cfg.CellSize)
		cl := math.Floor(c.Lng / cfg.CellSize)
		id := fmt.Sprintf("%.3f_%.3f", cr*cfg.CellSize, cl*cfg.CellSize)
		e, ok := cells[id]
		if !ok {
			e = &cell{
				lat: cr*cfg.CellSize + cfg.CellSize/2,
				lng: cl*cfg.CellSize + cfg.CellSize/2,
			}
			cells[id] = e
		}
		e.comps = append(e.comps, c)
	}

	ids := make([]string, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var clusters []*Cluster
	for _, id := range ids {
		e := cells[id]
		if cl := buildCluster(cfg, id, e.lat, e.lng, e.comps); cl != nil {
			clusters = append(clusters, cl)
		}
	}
	return clusters
}

func buildCluster(cfg Config, id string, lat, lng float64, all []*model.Comp) *Cluster {
	if len(all) < cfg.MinCompsPerCell {
		return nil
	}

	var t1, t2 []*model.Comp
	for _, c := range all {
		if c.Tier == model.TierNewRemodel {
			t1 = append(t1, c)
		} else {
			t2 = append(t2, c)
		}
	}

	cl := &Cluster{
		ID:  id,
		Lat: math.Round(lat*1e4) / 1e4,
		Lng: math.Round(lng*1e4) / 1e4,
		N:   len(all),
		T1N: len(t1),
		T2N: len(t2),
	}

	if fit := FitSizeCurve(cfg, t1, cfg.TargetSqft); fit != nil {
		cl.T1PSF = intp(fit.PSFAtTarget)
		cl.T1Price = intp(fit.PriceAtTarget)
		cl.T1Std = intp(fit.StdevPSF)
		cl.T1Fallback = intp(FallbackPerTier)
	}
	if fit := FitSizeCurve(cfg, t2, cfg.TargetSqft); fit != nil {
		cl.T2PSF = intp(fit.PSFAtTarget)
		cl.T2Price = intp(fit.PriceAtTarget)
		cl.T2Std = intp(fit.StdevPSF)
	}

	// Thin tier 1: fit every comp in the cell and split the result by the
	// measured (or assumed) tier premium.
	if cl.T1PSF == nil && len(all) >= 5 {
		if fit := FitSizeCurve(cfg, all, cfg.TargetSqft); fit != nil {
			premium := cfg.DefaultPremium
			if len(t1) >= 2 && len(t2) >= 2 {
				premium = comps.Median(ppsfs(t1)) - comps.Median(ppsfs(t2))
			}
			half := int(math.Round(float64(premium) / 2))
			cl.T1PSF = intp(fit.PSFAtTarget + half)
			cl.T2PSF = intp(fit.PSFAtTarget - half)
			cl.T1Price = intp(*cl.T1PSF * cfg.TargetSqft)
			cl.T2Price = intp(*cl.T2PSF * cfg.TargetSqft)
			cl.T1Fallback = intp(FallbackAllPremium)
		}
	}

	// Last resort: shade the cell median up and down 10%.
	if cl.T1PSF == nil {
		allPPSF := ppsfs(all)
		if len(allPPSF) == 0 {
			return nil
		}
		m := float64(comps.Median(allPPSF))
		cl.T1PSF = intp(int(math.Round(m * 1.1)))
		cl.T2PSF = intp(int(math.Round(m * 0.9)))
		cl.T1Price = intp(*cl.T1PSF * cfg.TargetSqft)
		cl.T2Price = intp(*cl.T2PSF * cfg.TargetSqft)
		cl.T1Fallback = intp(FallbackMedian)
	}

	if cl.T1PSF != nil && cl.T2PSF != nil {
		cl.Premium = intp(*cl.T1PSF - *cl.T2PSF)
	}

	var sumRW float64
	for _, c := range all {
		w := c.RecencyWeight
		if w == 0 {
			w = 0.5
		}
		sumRW += w
	}
	cl.AvgRecency = math.Round(sumRW/float64(len(all))*100) / 100

	return cl
}

func ppsfs(cc []*model.Comp) []int {
	out := make([]int, len(cc))
	for i, c := range cc {
		out[i] = c.PPSF
	}
	return out
}
