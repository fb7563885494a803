// Package subdiv detects completed small-lot subdivision projects in the
// sold-comp universe and time-adjusts their sale prices to today. The
// output is the highest-signal comp set in the system: actual exits of
// the exact product being underwritten.
package subdiv

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// Config holds the candidate filters and clustering thresholds.
type Config struct {
	// MinYearBuilt: modern construction is the signature of a recent
	// subdivision project.
	MinYearBuilt int `yaml:"min_year_built"`

	// Lot bounds: small lots confirm a parent parcel was split; the floor
	// screens data errors.
	MinLotSqft int `yaml:"min_lot_sqft"`
	MaxLotSqft int `yaml:"max_lot_sqft"`

	// Livable-area band for townhome-scale product.
	MinSqft int `yaml:"min_sqft"`
	MaxSqft int `yaml:"max_sqft"`

	MinPrice int `yaml:"min_price"`

	// ProximityDeg is the same-project distance threshold, about 200 feet.
	ProximityDeg float64 `yaml:"proximity_deg"`

	// WindowDays is the same-project sale window, measured against the
	// cluster seed.
	WindowDays int `yaml:"window_days"`

	// MaxAdjustmentPct caps the appreciation multiplier at ±this percent.
	MaxAdjustmentPct float64 `yaml:"max_adjustment_pct"`
}

// DefaultConfig returns the production detection thresholds.
func DefaultConfig() Config {
	return Config{
		MinYearBuilt:     2019,
		MinLotSqft:       1000,
		MaxLotSqft:       4000,
		MinSqft:          1200,
		MaxSqft:          2500,
		MinPrice:         400_000,
		ProximityDeg:     0.003,
		WindowDays:       540,
		MaxAdjustmentPct: 30,
	}
}

// allowedTypes are the product types a subdivision project sells as.
var allowedTypes = map[model.PropertyType]bool{
	model.PropSFR:       true,
	model.PropTownhouse: true,
	model.PropCondo:     true,
}

// candidate pairs a comp with its parsed sale date for clustering.
type candidate struct {
	comp *model.Comp
	sold time.Time

	clusterID int
}

// DetectAndAdjust filters the sold universe to subdivision candidates,
// clusters them into projects, keeps confirmed (2+ member) clusters, and
// appreciation-adjusts each sale to the present using the zip-level
// index. If no multi-member cluster exists at all, every candidate is
// kept as a singleton rather than returning nothing.
func DetectAndAdjust(cfg Config, cc []*model.Comp, appr model.ApprIndex, now time.Time) []*model.SubdivComp {
	cands := filterCandidates(cfg, cc)
	if len(cands) == 0 {
		return nil
	}

	clusterSizes := assignClusters(cfg, cands)

	var kept []*candidate
	for _, c := range cands {
		if clusterSizes[c.clusterID] >= 2 {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		// No confirmed projects anywhere: singletons are weak evidence but
		// better than an empty output.
		zap.L().Warn("no multi-member subdivision clusters, keeping singletons",
			zap.Int("candidates", len(cands)))
		kept = cands
		clusterSizes = make(map[int]int, len(cands))
		for _, c := range cands {
			clusterSizes[c.clusterID] = 1
		}
	}

	out := make([]*model.SubdivComp, 0, len(kept))
	for _, c := range kept {
		out = append(out, adjust(cfg, c, clusterSizes[c.clusterID], appr, now))
	}

	zap.L().Info("subdivision comps built",
		zap.Int("candidates", len(cands)),
		zap.Int("kept", len(out)),
	)
	return out
}

func filterCandidates(cfg Config, cc []*model.Comp) []*candidate {
	var out []*candidate
	for _, c := range cc {
		if c.YearBuilt == nil || *c.YearBuilt < cfg.MinYearBuilt {
			continue
		}
		if c.LotSqft == nil || *c.LotSqft < cfg.MinLotSqft || *c.LotSqft > cfg.MaxLotSqft {
			continue
		}
		if c.Sqft < cfg.MinSqft || c.Sqft > cfg.MaxSqft {
			continue
		}
		if c.Price < cfg.MinPrice {
			continue
		}
		if !allowedTypes[c.PropType] {
			continue
		}
		sold := comps.ParseSaleDate(c.Date)
		if sold == nil {
			continue
		}
		out = append(out, &candidate{comp: c, sold: *sold})
	}
	return out
}

// assignClusters groups candidates into projects with a single forward
// pass over the location-sorted slice: each unclustered candidate seeds a
// cluster and claims every later candidate within the proximity threshold
// and the sale window of the seed. One pass, no transitive expansion —
// two phases of the same project selling far apart in time stay separate
// clusters, which is acceptable: both still read as confirmed projects.
func assignClusters(cfg Config, cands []*candidate) map[int]int {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].comp.Lat != cands[j].comp.Lat {
			return cands[i].comp.Lat < cands[j].comp.Lat
		}
		return cands[i].comp.Lng < cands[j].comp.Lng
	})

	sizes := make(map[int]int)
	nextID := 0
	for i, seed := range cands {
		if seed.clusterID != 0 {
			continue
		}
		nextID++
		seed.clusterID = nextID
		sizes[nextID] = 1

		for _, d := range cands[i+1:] {
			if d.clusterID != 0 {
				continue
			}
			if math.Abs(seed.comp.Lat-d.comp.Lat) > cfg.ProximityDeg ||
				math.Abs(seed.comp.Lng-d.comp.Lng) > cfg.ProximityDeg {
				continue
			}
			days := math.Abs(seed.sold.Sub(d.sold).Hours() / 24)
			if days > float64(cfg.WindowDays) {
				continue
			}
			d.clusterID = nextID
			sizes[nextID]++
		}
	}
	return sizes
}

func adjust(cfg Config, c *candidate, clusterSize int, appr model.ApprIndex, now time.Time) *model.SubdivComp {
	monthsAgo := now.Sub(c.sold).Hours() / 24 / 30.0

	adjPPSF := c.comp.PPSF
	adjPct := 0.0
	if entry, ok := appr[c.comp.Zip]; ok && entry.Appr12Mo != 0 && monthsAgo > 0 {
		annual := entry.Appr12Mo / 100
		factor := math.Pow(1+annual, monthsAgo/12)
		cap := cfg.MaxAdjustmentPct / 100
		factor = math.Max(1-cap, math.Min(1+cap, factor))
		adjPPSF = int(math.Round(float64(c.comp.PPSF) * factor))
		adjPct = math.Round((factor-1)*1000) / 10
	}

	return &model.SubdivComp{
		Lat:         c.comp.Lat,
		Lng:         c.comp.Lng,
		PPSF:        c.comp.PPSF,
		AdjPPSF:     adjPPSF,
		Price:       c.comp.Price,
		Sqft:        c.comp.Sqft,
		LotSqft:     *c.comp.LotSqft,
		YearBuilt:   *c.comp.YearBuilt,
		Sold:        c.comp.Date,
		Zip:         c.comp.Zip,
		Zone:        c.comp.Zone,
		ClusterID:   c.clusterID,
		ClusterSize: clusterSize,
		ApprPct:     adjPct,
	}
}
