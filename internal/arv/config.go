// Package arv fits per-neighborhood size curves over sold comps and
// publishes a cluster surface: for each grid cell with enough sales, the
// predicted $/SF of a 1,750 SF small-lot home in new and existing
// condition. Cells that cannot support a regression fall back to coarser
// estimates, with the fallback level recorded on the cluster.
package arv

// Config controls grid cell size, the normalization target, and the
// sanity bounds on fitted curves.
type Config struct {
	// CellSize is the cluster grid cell in degrees, roughly a third of a
	// mile at Los Angeles latitudes.
	CellSize float64 `yaml:"cell_size"`

	// TargetSqft is the product size every curve is evaluated at.
	TargetSqft int `yaml:"target_sqft"`

	// MinCompsPerCell is the floor below which a cell emits no cluster.
	MinCompsPerCell int `yaml:"min_comps_per_cell"`

	// DefaultPremium is the assumed tier-1 over tier-2 $/SF premium when a
	// cell lacks enough sales in both tiers to measure it.
	DefaultPremium int `yaml:"default_premium"`

	// MinSlope and MaxSlope bound the regression slope in $/SF; fits
	// outside the band are rejected as degenerate.
	MinSlope float64 `yaml:"min_slope"`
	MaxSlope float64 `yaml:"max_slope"`

	// SqftMin and SqftMax bound the homes admitted to curve fitting.
	SqftMin int `yaml:"sqft_min"`
	SqftMax int `yaml:"sqft_max"`
}

// DefaultConfig returns the production ARV model parameters.
func DefaultConfig() Config {
	return Config{
		CellSize:        0.005,
		TargetSqft:      1750,
		MinCompsPerCell: 3,
		DefaultPremium:  120,
		MinSlope:        200,
		MaxSlope:        1500,
		SqftMin:         1000,
		SqftMax:         3500,
	}
}
