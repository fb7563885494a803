package estimator

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/spatial"
)

// Flags attached to new-construction estimates by the sanity bound.
const (
	FlagSanityLow  = "sanity-low"
	FlagSanityHigh = "sanity-high"
)

// EstimateNewConPPSF prices a target against recent-vintage construction
// only. The cascade prefers vintage purity over locality: the newest two
// build-years are exhausted across the whole radius ladder before older
// vintage is admitted, and the oldest admitted vintage takes a fixed
// haircut to model depreciation against brand-new product. When the
// target zone's pool fails entirely, adjacent zones are pooled in and the
// result tagged as a cross-zone match.
//
// general is the unrestricted exit estimate for the same target; a
// vintage value below SanityLowRatio of it is rejected outright, one at
// or above SanityHighRatio is kept but flagged for review.
func (e *Estimator) EstimateNewConPPSF(lat, lng float64, zone model.Zone, general *int) model.NewConEstimate {
	est := e.newconSearch(lat, lng, zone)
	if est.Value == nil {
		return est
	}

	if general != nil && *general > 0 {
		cfg := e.cfg.NewCon
		ratio := float64(*est.Value) / float64(*general)
		if ratio < cfg.SanityLowRatio {
			est.Value = nil
			est.Flag = FlagSanityLow
		} else if ratio >= cfg.SanityHighRatio {
			est.Flag = FlagSanityHigh
		}
	}
	return est
}

func (e *Estimator) newconSearch(lat, lng float64, zone model.Zone) model.NewConEstimate {
	if g := e.newconByZone[zone]; g != nil {
		if est, ok := e.vintageCascade(g, lat, lng); ok {
			est.ZoneMatched = true
			return est
		}
	}

	// Cross-zone retry: pool the target zone with its adjacent zones.
	grids := make([]*spatial.Grid[*model.Comp], 0, 3)
	if g := e.newconByZone[zone]; g != nil {
		grids = append(grids, g)
	}
	for _, adj := range model.AdjacentZones(zone) {
		if g := e.newconByZone[adj]; g != nil {
			grids = append(grids, g)
		}
	}
	if len(grids) > 0 {
		if est, ok := e.vintageCascadeMulti(grids, lat, lng); ok {
			return est
		}
	}

	return model.NewConEstimate{}
}

// vintage tier bounds relative to the current year. A tier admits comps
// with build year >= now.Year() - maxAge; the haircut applies to comps
// older than the newest-3 window once the full window opens.
type vintageTier struct {
	label   string
	maxAge  int
	haircut bool
}

func (e *Estimator) tiers() []vintageTier {
	return []vintageTier{
		{model.NewConTierNewest2, 1, false},
		{model.NewConTierNewest3, 2, false},
		{model.NewConTierAll, e.cfg.NewCon.VintageYears, true},
	}
}

func (e *Estimator) vintageCascade(g *spatial.Grid[*model.Comp], lat, lng float64) (model.NewConEstimate, bool) {
	return e.vintageCascadeMulti([]*spatial.Grid[*model.Comp]{g}, lat, lng)
}

func (e *Estimator) vintageCascadeMulti(grids []*spatial.Grid[*model.Comp], lat, lng float64) (model.NewConEstimate, bool) {
	cfg := e.cfg.NewCon
	year := e.now.Year()

	for _, tier := range e.tiers() {
		minYB := year - tier.maxAge
		haircutBefore := year - 2

		for _, radius := range cfg.RadiusLadder {
			var vals []int
			for _, g := range grids {
				for _, c := range g.QueryFunc(lat, lng, radius, func(c *model.Comp) bool {
					return c.YearBuilt != nil && *c.YearBuilt >= minYB &&
						inBand(c.Sqft, cfg.SqftBandMin, cfg.SqftBandMax)
				}) {
					ppsf := c.PPSF
					if tier.haircut && *c.YearBuilt < haircutBefore {
						ppsf = int(math.Round(float64(ppsf) * (1 - cfg.HaircutPct)))
					}
					vals = append(vals, ppsf)
				}
			}
			if len(vals) >= cfg.MinComps {
				return model.NewConEstimate{
					Value:     intp(comps.P75(vals)),
					CompCount: len(vals),
					Tier:      tier.label,
				}, true
			}
		}
	}
	return model.NewConEstimate{}, false
}
