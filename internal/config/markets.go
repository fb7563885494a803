package config

import (
	"github.com/rotisserie/eris"

	"github.com/yardsworth/dealfinder/internal/btr"
	"github.com/yardsworth/dealfinder/internal/comps"
)

// Proforma holds the underwriting defaults that vary by market.
type Proforma struct {
	HardCostPSF  int
	SoftCostMult float64

	// BTRFocus is the geographic envelope build-to-rent underwriting is
	// limited to within the market.
	BTRFocus comps.Bounds
}

// Market describes a supported metro area: its coordinate bounds and
// pro-forma defaults.
type Market struct {
	Slug     string
	Name     string
	Bounds   comps.Bounds
	Proforma Proforma
}

// BTRConfig returns the baseline underwriting assumptions with this
// market's pro-forma defaults applied.
func (m Market) BTRConfig() btr.Config {
	cfg := btr.DefaultConfig()
	cfg.HardCostPSF = m.Proforma.HardCostPSF
	cfg.SoftCostMult = m.Proforma.SoftCostMult
	cfg.Focus = m.Proforma.BTRFocus
	return cfg
}

var markets = map[string]Market{
	"la": {
		Slug: "la",
		Name: "Los Angeles",
		Bounds: comps.Bounds{
			LatMin: 33.70,
			LatMax: 34.85,
			LngMin: -118.95,
			LngMax: -117.55,
		},
		Proforma: Proforma{
			HardCostPSF:  350,
			SoftCostMult: 0.15,
			// Lower San Fernando Valley and adjacent areas.
			BTRFocus: comps.Bounds{
				LatMin: 33.95,
				LatMax: 34.25,
				LngMin: -118.65,
				LngMax: -118.05,
			},
		},
	},
	"sd": {
		Slug: "sd",
		Name: "San Diego",
		Bounds: comps.Bounds{
			LatMin: 32.53,
			LatMax: 33.12,
			LngMin: -117.60,
			LngMax: -116.08,
		},
		Proforma: Proforma{
			HardCostPSF:  350,
			SoftCostMult: 0.15,
			// No narrower focus defined; underwrite the whole market.
			BTRFocus: comps.Bounds{
				LatMin: 32.53,
				LatMax: 33.12,
				LngMin: -117.60,
				LngMax: -116.08,
			},
		},
	},
}

// MarketBySlug resolves a market by slug. An empty slug returns the
// default Los Angeles market.
func MarketBySlug(slug string) (Market, error) {
	if slug == "" {
		slug = "la"
	}
	m, ok := markets[slug]
	if !ok {
		return Market{}, eris.Errorf("config: unknown market %q", slug)
	}
	return m, nil
}

// MarketSlugs returns the supported market slugs in sorted order.
func MarketSlugs() []string {
	return []string{"la", "sd"}
}
