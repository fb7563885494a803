package estimator

import (
	"time"

	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/model"
	"github.com/yardsworth/dealfinder/internal/spatial"
)

// Estimator holds the read-only indexes for one comp-dataset snapshot.
// All indexes are built in New and never mutated, so the estimate methods
// are safe for concurrent use across workers.
type Estimator struct {
	cfg Config
	now time.Time

	all    *spatial.Grid[*model.Comp]
	byZone map[model.Zone]*spatial.Grid[*model.Comp]

	// Vintage-restricted (recent build year) pools, split per zone.
	newconByZone map[model.Zone]*spatial.Grid[*model.Comp]

	zipZonePPSF map[zipZone][]int
	zipPPSF     map[string][]int

	subdiv  *spatial.Grid[*model.SubdivComp]
	rentals *spatial.Grid[*model.RentalComp]

	rentIndex model.RentIndex
	fmrIndex  model.FMRIndex
}

type zipZone struct {
	zip  string
	zone model.Zone
}

// New builds all comp indexes for one run. subdivComps, rentals, and the
// rent indexes may be nil; their estimators then return method "none".
func New(cfg Config, cc []*model.Comp, subdivComps []*model.SubdivComp,
	rentals []*model.RentalComp, rentIndex model.RentIndex,
	fmrIndex model.FMRIndex, now time.Time) *Estimator {

	e := &Estimator{
		cfg:          cfg,
		now:          now,
		all:          spatial.Build(cc, cfg.GridCell),
		byZone:       make(map[model.Zone]*spatial.Grid[*model.Comp]),
		newconByZone: make(map[model.Zone]*spatial.Grid[*model.Comp]),
		zipZonePPSF:  make(map[zipZone][]int),
		zipPPSF:      make(map[string][]int),
		subdiv:       spatial.Build(subdivComps, cfg.GridCell),
		rentals:      spatial.Build(rentals, cfg.GridCell),
		rentIndex:    rentIndex,
		fmrIndex:     fmrIndex,
	}

	vintageCutoff := now.Year() - cfg.NewCon.VintageYears

	perZone := make(map[model.Zone][]*model.Comp)
	newconPerZone := make(map[model.Zone][]*model.Comp)
	newconCount := 0
	for _, c := range cc {
		if c.Zone != "" && c.Zone != model.ZoneLand {
			perZone[c.Zone] = append(perZone[c.Zone], c)
			if c.IsNewConstruction(vintageCutoff) {
				newconPerZone[c.Zone] = append(newconPerZone[c.Zone], c)
				newconCount++
			}
		}
		if c.Zip != "" {
			if c.Zone != "" {
				k := zipZone{c.Zip, c.Zone}
				e.zipZonePPSF[k] = append(e.zipZonePPSF[k], c.PPSF)
			}
			e.zipPPSF[c.Zip] = append(e.zipPPSF[c.Zip], c.PPSF)
		}
	}
	for z, comps := range perZone {
		e.byZone[z] = spatial.Build(comps, cfg.GridCell)
	}
	for z, comps := range newconPerZone {
		e.newconByZone[z] = spatial.Build(comps, cfg.GridCell)
	}

	zap.L().Info("comp indexes built",
		zap.Int("comps", len(cc)),
		zap.Int("zones", len(e.byZone)),
		zap.Int("newcon_comps", newconCount),
		zap.Int("subdiv_comps", len(subdivComps)),
		zap.Int("rental_comps", len(rentals)),
		zap.Int("zips", len(e.zipPPSF)),
	)
	return e
}

// inBand reports whether sqft falls in the [min, max] band; a zero band
// admits everything.
func inBand(sqft, min, max int) bool {
	if min == 0 && max == 0 {
		return true
	}
	return sqft >= min && sqft <= max
}
