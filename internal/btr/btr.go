// Package btr underwrites listings as build-to-rent projects: ten
// townhome-scale units held as rentals instead of sold. A site qualifies
// when it is buildable (big flat lot outside the fire severity zones),
// the for-sale exit does not already pencil, and the base-case yield on
// cost clears the target. Three rent scenarios bracket the estimate.
package btr

import (
	"math"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// Screen names recorded on disqualified sites.
const (
	ScreenBounds   = "outside_focus_area"
	ScreenLot      = "lot_too_small"
	ScreenSlope    = "slope_too_steep"
	ScreenFireZone = "fire_zone"
	ScreenForSale  = "for_sale_pencils"
	ScreenNoRent   = "no_rent_data"
	ScreenYield    = "below_target_yoc"
)

// Config holds the underwriting assumptions.
type Config struct {
	// MinSalePPSF: at or above this exit $/SF the for-sale strategy wins
	// and the site is not a BTR candidate.
	MinSalePPSF int `yaml:"min_sale_ppsf"`

	// TargetYoC is the minimum base-case yield on cost.
	TargetYoC float64 `yaml:"target_yoc"`

	UnitSqft    int     `yaml:"unit_sqft"`
	Units       int     `yaml:"units"`
	HardCostPSF int     `yaml:"hard_cost_psf"`
	MinLotSqft  int     `yaml:"min_lot_sqft"`
	MaxSlopePct float64 `yaml:"max_slope_pct"`

	SoftCostMult float64 `yaml:"soft_cost_mult"`
	VacancyRate  float64 `yaml:"vacancy_rate"`
	OpexRatio    float64 `yaml:"opex_ratio"`
	CapRate      float64 `yaml:"cap_rate"`

	// PremiumFactor scales an all-stock market rent up to new-construction
	// product rent for the base case.
	PremiumFactor float64 `yaml:"premium_factor"`

	// Focus is the geographic envelope BTR underwriting is limited to.
	Focus comps.Bounds `yaml:"focus"`
}

// DefaultConfig returns the production underwriting assumptions, focused
// on the lower San Fernando Valley and adjacent areas.
func DefaultConfig() Config {
	return Config{
		MinSalePPSF:   650,
		TargetYoC:     0.04,
		UnitSqft:      1750,
		Units:         10,
		HardCostPSF:   350,
		MinLotSqft:    12_000,
		MaxSlopePct:   10,
		SoftCostMult:  0.15,
		VacancyRate:   0.05,
		OpexRatio:     0.30,
		CapRate:       0.05,
		PremiumFactor: 1.25,
		Focus: comps.Bounds{
			LatMin: 33.95, LatMax: 34.25,
			LngMin: -118.65, LngMax: -118.05,
		},
	}
}

// noi computes annual net operating income for a monthly rent level:
// gross less vacancy, then less operating expenses on the effective
// income.
func (cfg Config) noi(rent float64) float64 {
	gross := rent * float64(cfg.Units) * 12
	egi := gross * (1 - cfg.VacancyRate)
	return egi * (1 - cfg.OpexRatio)
}

func (cfg Config) scenario(rent float64, totalCost int) *model.BTRScenario {
	n := cfg.noi(rent)
	yoc := 0.0
	if totalCost > 0 {
		yoc = math.Round(n/float64(totalCost)*1e4) / 1e4
	}
	return &model.BTRScenario{
		Rent: int(math.Round(rent)),
		NOI:  int(math.Round(n)),
		YoC:  yoc,
	}
}

// Evaluate underwrites one listing. exitPPSF is the neighborhood exit
// estimate (nil when unknown — the for-sale screen then passes and the
// site is judged on rent alone). marketRent is the all-stock monthly
// rent for the zip, before the new-construction premium.
func Evaluate(cfg Config, l *model.Listing, exitPPSF *int, marketRent *float64) model.BTRResult {
	if !cfg.Focus.Contains(l.Lat, l.Lng) {
		return model.BTRResult{FailedScreen: ScreenBounds}
	}
	if l.LotSqft == nil || *l.LotSqft < cfg.MinLotSqft {
		return model.BTRResult{FailedScreen: ScreenLot}
	}
	if l.SlopePct != nil && *l.SlopePct > cfg.MaxSlopePct {
		return model.BTRResult{FailedScreen: ScreenSlope}
	}
	if l.InVHFHSZ != nil && *l.InVHFHSZ {
		return model.BTRResult{FailedScreen: ScreenFireZone}
	}
	if exitPPSF != nil && *exitPPSF >= cfg.MinSalePPSF {
		return model.BTRResult{FailedScreen: ScreenForSale}
	}
	if marketRent == nil || *marketRent <= 0 {
		return model.BTRResult{FailedScreen: ScreenNoRent}
	}

	landCost := l.Price
	if landCost <= 0 && exitPPSF != nil && l.LotSqft != nil {
		landCost = *exitPPSF * *l.LotSqft
	}
	hardCost := cfg.UnitSqft * cfg.Units * cfg.HardCostPSF
	softCost := int(math.Round(float64(hardCost) * cfg.SoftCostMult))
	totalCost := landCost + hardCost + softCost

	res := model.BTRResult{
		Conservative:  cfg.scenario(*marketRent, totalCost),
		Base:          cfg.scenario(*marketRent*cfg.PremiumFactor, totalCost),
		Aggressive:    cfg.scenario(*marketRent*cfg.PremiumFactor*1.10, totalCost),
		LandCost:      landCost,
		HardCost:      hardCost,
		SoftCost:      softCost,
		TotalCost:     totalCost,
		PremiumFactor: cfg.PremiumFactor,
		RentSource:    "zip_index",
	}
	if exitPPSF != nil {
		res.SalePPSFGap = *exitPPSF - cfg.MinSalePPSF
	}

	if res.Base.YoC < cfg.TargetYoC {
		res.FailedScreen = ScreenYield
		return res
	}

	res.Eligible = true
	res.StabilizedValue = int(math.Round(float64(res.Base.NOI) / cfg.CapRate))
	return res
}
