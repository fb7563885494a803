// Package estimator prices target parcels from pre-built comp indexes:
// exit $/SF from the general sale universe, new-construction $/SF from the
// recent-vintage pool, exit $/SF from confirmed subdivision sales, and
// monthly rent from rental comps with index fallbacks. Every estimate
// carries a method tag; insufficient data yields a null value and
// method "none", never an error.
package estimator

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config tunes the comp search. Zero values are filled from defaults at
// load time, so a partial YAML override file only needs the knobs it
// changes.
type Config struct {
	// GridCell is the index cell size in degrees, roughly 0.7 miles.
	GridCell float64 `yaml:"grid_cell"`

	Exit   ExitConfig   `yaml:"exit"`
	NewCon NewConConfig `yaml:"newcon"`
	Subdiv SubdivConfig `yaml:"subdiv"`
	Rent   RentConfig   `yaml:"rent"`
}

// ExitConfig tunes the general exit $/SF search.
type ExitConfig struct {
	// RadiusLadder is the expanding search radii in degrees, tried in
	// order until the comp floor is met.
	RadiusLadder []float64 `yaml:"radius_ladder"`

	// MinComps is the sample floor for a spatial match.
	MinComps int `yaml:"min_comps"`

	// ZipMinComps is the smaller floor for the zip+zone fallback.
	ZipMinComps int `yaml:"zip_min_comps"`

	// SqftBandMin/Max restrict spatial candidates to a livable-area band
	// around the target product. Zero disables the band.
	SqftBandMin int `yaml:"sqft_band_min"`
	SqftBandMax int `yaml:"sqft_band_max"`
}

// NewConConfig tunes the vintage-restricted search. New construction is
// sparse, so the radii are wider and the comp floor lower than the
// general search.
type NewConConfig struct {
	RadiusLadder []float64 `yaml:"radius_ladder"`
	MinComps     int       `yaml:"min_comps"`

	// VintageYears is how far back from the current year a build year
	// still counts as new construction.
	VintageYears int `yaml:"vintage_years"`

	// HaircutPct is the discount applied to the older half of the vintage
	// pool when the cascade widens to the full window.
	HaircutPct float64 `yaml:"haircut_pct"`

	// SanityLowRatio rejects a value below this fraction of the general
	// estimate; SanityHighRatio flags (but keeps) a value at or above it.
	SanityLowRatio  float64 `yaml:"sanity_low_ratio"`
	SanityHighRatio float64 `yaml:"sanity_high_ratio"`

	SqftBandMin int `yaml:"sqft_band_min"`
	SqftBandMax int `yaml:"sqft_band_max"`
}

// SubdivConfig tunes the subdivision-comp search.
type SubdivConfig struct {
	RadiusLadder []float64 `yaml:"radius_ladder"`
	MinComps     int       `yaml:"min_comps"`
}

// RentConfig tunes the five-tier rental estimator.
type RentConfig struct {
	// TightLadder is tier 1; WideRadius is tier 2; RelaxedRadius is tier 3.
	TightLadder   []float64 `yaml:"tight_ladder"`
	WideRadius    float64   `yaml:"wide_radius"`
	RelaxedRadius float64   `yaml:"relaxed_radius"`

	MinComps int `yaml:"min_comps"`

	// Target product shape for direct-comp filtering.
	TargetBeds int `yaml:"target_beds"`
	MinSqft    int `yaml:"min_sqft"`

	// RelaxedUpliftPct bumps a relaxed-sample estimate when the sample's
	// median bedroom count falls short of the target.
	RelaxedUpliftPct float64 `yaml:"relaxed_uplift_pct"`

	// ZipIndexFactor and FMRFactor convert area-wide rents to
	// new-construction product rents.
	ZipIndexFactor float64 `yaml:"zip_index_factor"`
	FMRFactor      float64 `yaml:"fmr_factor"`
}

// DefaultConfig returns the production search parameters. Radii are in
// degrees; the exit ladder spans roughly a quarter mile to four miles.
func DefaultConfig() Config {
	return Config{
		GridCell: 0.01,
		Exit: ExitConfig{
			RadiusLadder: []float64{0.004, 0.007, 0.015, 0.029, 0.058},
			MinComps:     5,
			ZipMinComps:  3,
		},
		NewCon: NewConConfig{
			RadiusLadder:    []float64{0.007, 0.015, 0.029, 0.058, 0.087},
			MinComps:        3,
			VintageYears:    5,
			HaircutPct:      0.10,
			SanityLowRatio:  0.75,
			SanityHighRatio: 1.30,
			SqftBandMin:     1000,
			SqftBandMax:     3500,
		},
		Subdiv: SubdivConfig{
			RadiusLadder: []float64{0.007, 0.015, 0.029, 0.058},
			MinComps:     3,
		},
		Rent: RentConfig{
			TightLadder:      []float64{0.004, 0.007},
			WideRadius:       0.015,
			RelaxedRadius:    0.010,
			MinComps:         3,
			TargetBeds:       3,
			MinSqft:          1200,
			RelaxedUpliftPct: 0.20,
			ZipIndexFactor:   1.40,
			FMRFactor:        1.25,
		},
	}
}

// LoadConfig reads a YAML override file on top of the defaults. A missing
// path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("estimator config not found, using defaults", zap.String("path", path))
			return cfg, nil
		}
		return cfg, eris.Wrapf(err, "estimator: read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "estimator: parse config %s", path)
	}
	return cfg, nil
}
