package estimator

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// EstimateSubdivPPSF prices a target against confirmed small-lot
// subdivision sales, the most product-comparable evidence available.
// Values are the appreciation-adjusted $/SF; the estimate also reports
// the average adjustment applied to the matched sample so a reader can
// see how much of the number is time travel.
func (e *Estimator) EstimateSubdivPPSF(lat, lng float64) model.SubdivEstimate {
	cfg := e.cfg.Subdiv
	if e.subdiv.Len() == 0 {
		return model.SubdivEstimate{}
	}

	for _, radius := range cfg.RadiusLadder {
		nearby := e.subdiv.Query(lat, lng, radius)
		if len(nearby) < cfg.MinComps {
			continue
		}
		vals := make([]int, len(nearby))
		var sumAppr float64
		for i, s := range nearby {
			vals[i] = s.AdjPPSF
			sumAppr += s.ApprPct
		}
		avg := math.Round(sumAppr/float64(len(nearby))*10) / 10
		return model.SubdivEstimate{
			Value:      intp(comps.P75(vals)),
			CompCount:  len(nearby),
			AvgApprPct: &avg,
		}
	}
	return model.SubdivEstimate{}
}
