package arv

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/model"
)

// CurveFit is a weighted size regression evaluated at the target square
// footage.
type CurveFit struct {
	PSFAtTarget   int
	PriceAtTarget int
	StdevPSF      int
}

// FitSizeCurve runs a recency-weighted linear regression of price on
// square footage over cc and evaluates it at targetSqft. Returns nil when
// fewer than three in-band comps exist, when the design matrix is
// degenerate, or when the fitted slope falls outside the sanity band.
func FitSizeCurve(cfg Config, cc []*model.Comp, targetSqft int) *CurveFit {
	var valid []*model.Comp
	for _, c := range cc {
		if c.Sqft >= cfg.SqftMin && c.Sqft <= cfg.SqftMax && c.PPSF > 0 {
			valid = append(valid, c)
		}
	}
	if len(valid) < 3 {
		return nil
	}

	var sw, sx, sy, sxx, sxy float64
	for _, c := range valid {
		w := c.RecencyWeight
		if w == 0 {
			w = 0.5
		}
		x := float64(c.Sqft)
		y := float64(c.Price)
		sw += w
		sx += w * x
		sy += w * y
		sxx += w * x * x
		sxy += w * x * y
	}

	denom := sw*sxx - sx*sx
	if math.Abs(denom) < 1e-10 {
		return nil
	}

	slope := (sw*sxy - sx*sy) / denom
	intercept := (sy - slope*sx) / sw

	if slope < cfg.MinSlope || slope > cfg.MaxSlope {
		return nil
	}

	predicted := intercept + slope*float64(targetSqft)
	if predicted <= 0 {
		return nil
	}

	// Unweighted residual spread, expressed as $/SF at the target size.
	var meanResid float64
	resids := make([]float64, len(valid))
	for i, c := range valid {
		r := float64(c.Price) - (intercept + slope*float64(c.Sqft))
		resids[i] = r
		meanResid += r
	}
	meanResid /= float64(len(resids))

	var varResid float64
	for _, r := range resids {
		varResid += (r - meanResid) * (r - meanResid)
	}
	varResid /= math.Max(1, float64(len(resids)-2))

	return &CurveFit{
		PSFAtTarget:   int(math.Round(predicted / float64(targetSqft))),
		PriceAtTarget: int(math.Round(predicted)),
		StdevPSF:      int(math.Round(math.Sqrt(varResid) / float64(targetSqft))),
	}
}
