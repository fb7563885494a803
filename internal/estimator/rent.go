package estimator

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// comparableRentalTypes are the property types a townhome-scale product
// competes with in the rental market.
var comparableRentalTypes = map[model.PropertyType]bool{
	model.PropSFR:       true,
	model.PropTownhouse: true,
	model.PropCondo:     true,
	model.PropMF24:      true,
}

// EstimateRent returns the monthly rent for the target product via a
// five-tier cascade: direct comps on a tight ladder, direct comps at one
// wider radius, relaxed comps with a bedroom-shortfall uplift, the zip
// rent index scaled by a new-construction factor, and finally the
// government fair-market rent scaled by a smaller factor. Each successive
// tier trades specificity for coverage; the method tag records which one
// produced the number.
func (e *Estimator) EstimateRent(lat, lng float64, zip string) model.RentEstimate {
	cfg := e.cfg.Rent

	strict := func(r *model.RentalComp) bool {
		return r.Beds != nil && *r.Beds >= cfg.TargetBeds &&
			r.Sqft != nil && *r.Sqft >= cfg.MinSqft &&
			comparableRentalTypes[r.PropType]
	}

	// Tiers 1 and 2: direct comps, tight ladder then one wider radius.
	for _, radius := range append(append([]float64{}, cfg.TightLadder...), cfg.WideRadius) {
		nearby := e.rentals.QueryFunc(lat, lng, radius, strict)
		if len(nearby) >= cfg.MinComps {
			return model.RentEstimate{
				Value:       intp(comps.P75(rentsOf(nearby))),
				Method:      model.RentMethodComps,
				CompCount:   len(nearby),
				RadiusMiles: radiusMiles(radius),
			}
		}
	}

	// Tier 3: relax bedroom/size/type filters, then correct for the
	// smaller product actually sampled.
	relaxed := e.rentals.QueryFunc(lat, lng, cfg.RelaxedRadius, func(r *model.RentalComp) bool {
		return r.Rent > 0
	})
	if len(relaxed) >= cfg.MinComps {
		value := comps.P75(rentsOf(relaxed))
		medianBeds := sampleMedianBeds(relaxed)
		if medianBeds != nil && *medianBeds < float64(cfg.TargetBeds) {
			value = int(math.Round(float64(value) * (1 + cfg.RelaxedUpliftPct)))
		}
		return model.RentEstimate{
			Value:            intp(value),
			Method:           model.RentMethodCompsRelaxed,
			CompCount:        len(relaxed),
			RadiusMiles:      radiusMiles(cfg.RelaxedRadius),
			SampleMedianBeds: medianBeds,
		}
	}

	// Tier 4: zip-level market rent, scaled to new-construction product.
	if zip != "" {
		if idx, ok := e.rentIndex[zip]; ok && idx > 0 {
			return model.RentEstimate{
				Value:  intp(int(math.Round(idx * cfg.ZipIndexFactor))),
				Method: model.RentMethodZipIndex,
			}
		}
		// Tier 5: government fair-market rent.
		if fmr, ok := e.fmrIndex[zip]; ok && fmr.FMR3BR > 0 {
			return model.RentEstimate{
				Value:  intp(int(math.Round(float64(fmr.FMR3BR) * cfg.FMRFactor))),
				Method: model.RentMethodSAFMR,
			}
		}
	}

	return model.RentEstimate{Method: model.RentMethodNone}
}

// MarketRent returns the zip's all-stock median asking rent, nil when the
// zip is not in the index. Used directly by the BTR underwriter, which
// applies its own premium factor.
func (e *Estimator) MarketRent(zip string) *float64 {
	if v, ok := e.rentIndex[zip]; ok && v > 0 {
		return &v
	}
	return nil
}

func rentsOf(rr []*model.RentalComp) []int {
	out := make([]int, len(rr))
	for i, r := range rr {
		out[i] = r.Rent
	}
	return out
}

func sampleMedianBeds(rr []*model.RentalComp) *float64 {
	var beds []float64
	for _, r := range rr {
		if r.Beds != nil {
			beds = append(beds, float64(*r.Beds))
		}
	}
	if len(beds) == 0 {
		return nil
	}
	m := comps.MedianFloat(beds)
	return &m
}
