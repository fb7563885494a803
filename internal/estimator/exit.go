package estimator

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/spatial"
)

// milesPerDeg converts a degree radius to the approximate miles reported
// on estimates. One degree of latitude is about 69 miles.
const milesPerDeg = 69.0

func radiusMiles(deg float64) float64 {
	return math.Round(deg*milesPerDeg*100) / 100
}

// EstimateExitPPSF prices a target point against the sale universe at the
// 75th percentile — new small-lot product competes with the top quartile
// of neighborhood sales, not the middle. Search order, strict priority:
// same-zone spatial (size band, then band relaxed at the widest radius,
// then a thin sample), all-zone spatial likewise, zip+zone aggregate, zip
// aggregate, none.
func (e *Estimator) EstimateExitPPSF(lat, lng float64, zone model.Zone, zip string) model.ExitEstimate {
	cfg := e.cfg.Exit

	if zg := e.byZone[zone]; zg != nil {
		if est, ok := e.spatialSearch(zg, lat, lng, cfg,
			model.MethodZone, model.MethodZoneWide, model.MethodZoneThin); ok {
			return est
		}
	}
	if est, ok := e.spatialSearch(e.all, lat, lng, cfg,
		model.MethodAll, model.MethodAll, model.MethodAllThin); ok {
		return est
	}

	if zip != "" {
		if vals := e.zipZonePPSF[zipZone{zip, zone}]; len(vals) >= cfg.ZipMinComps {
			return model.ExitEstimate{
				Value:     intp(comps.P75(vals)),
				CompCount: len(vals),
				Method:    model.MethodZipZone,
			}
		}
		if vals := e.zipPPSF[zip]; len(vals) > 0 {
			return model.ExitEstimate{
				Value:     intp(comps.P75(vals)),
				CompCount: len(vals),
				Method:    model.MethodZip,
			}
		}
	}

	return model.ExitEstimate{Method: model.MethodNone}
}

// spatialSearch walks the radius ladder against one grid. It returns the
// banded full-sample match, a band-relaxed match at the widest radius, or
// a thin sample at the widest radius, in that order.
func (e *Estimator) spatialSearch(g *spatial.Grid[*model.Comp], lat, lng float64,
	cfg ExitConfig, method, wideMethod, thinMethod string) (model.ExitEstimate, bool) {

	banded := cfg.SqftBandMin != 0 || cfg.SqftBandMax != 0

	for _, radius := range cfg.RadiusLadder {
		nearby := g.QueryFunc(lat, lng, radius, func(c *model.Comp) bool {
			return inBand(c.Sqft, cfg.SqftBandMin, cfg.SqftBandMax)
		})
		if len(nearby) >= cfg.MinComps {
			return model.ExitEstimate{
				Value:       intp(comps.P75(ppsfOf(nearby))),
				CompCount:   len(nearby),
				RadiusMiles: radiusMiles(radius),
				Method:      method,
			}, true
		}
	}

	widest := cfg.RadiusLadder[len(cfg.RadiusLadder)-1]

	if banded {
		nearby := g.Query(lat, lng, widest)
		if len(nearby) >= cfg.MinComps {
			return model.ExitEstimate{
				Value:       intp(comps.P75(ppsfOf(nearby))),
				CompCount:   len(nearby),
				RadiusMiles: radiusMiles(widest),
				Method:      wideMethod,
			}, true
		}
	}

	if nearby := g.Query(lat, lng, widest); len(nearby) > 0 {
		return model.ExitEstimate{
			Value:       intp(comps.P75(ppsfOf(nearby))),
			CompCount:   len(nearby),
			RadiusMiles: radiusMiles(widest),
			Method:      thinMethod,
		}, true
	}

	return model.ExitEstimate{}, false
}

func ppsfOf(cc []*model.Comp) []int {
	out := make([]int, len(cc))
	for i, c := range cc {
		out[i] = c.PPSF
	}
	return out
}

func intp(v int) *int { return &v }
