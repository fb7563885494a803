package model

import "time"

// ConditionTier classifies a comp's product condition relative to its
// neighborhood. Derived during normalization, not present in source data.
type ConditionTier int

const (
	// TierNewRemodel covers new construction and visibly remodeled stock.
	TierNewRemodel ConditionTier = 1
	// TierExisting covers unimproved existing stock.
	TierExisting ConditionTier = 2
)

// Comp is a normalized historical sale record. Comps are immutable once
// loaded into a batch; every index build takes a fresh snapshot.
//
// Invariant: Price > 0, Sqft > 0, and PPSF > 0 — records violating this are
// dropped during normalization and never reach the estimators.
type Comp struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Price int     `json:"price"`
	Sqft  int     `json:"sqft"`
	PPSF  int     `json:"ppsf"`
	Zone  Zone    `json:"zone"`
	Zip   string  `json:"zip"`

	// Date is the raw sale-date string from the source export; SaleDate is
	// its parsed form (nil when unparseable, though normalization requires
	// at least a non-empty raw date).
	Date     string     `json:"date"`
	SaleDate *time.Time `json:"-"`

	// YearBuilt is nil when the source year is missing or implausible;
	// bogus years are nulled, the comp itself is kept.
	YearBuilt *int `json:"yb,omitempty"`

	LotSqft  *int         `json:"lot,omitempty"`
	Beds     *int         `json:"bd,omitempty"`
	Baths    *float64     `json:"ba,omitempty"`
	PropType PropertyType `json:"pt,omitempty"`
	Address  string       `json:"address,omitempty"`

	// Derived during normalization.
	Tier          ConditionTier `json:"t,omitempty"`
	RecencyWeight float64       `json:"rw,omitempty"`
}

// Coords returns the comp's position for spatial indexing.
func (c *Comp) Coords() (float64, float64) { return c.Lat, c.Lng }

// IsNewConstruction reports whether the comp was built at or after the
// given cutoff year. Comps with unknown build years are never new.
func (c *Comp) IsNewConstruction(cutoffYear int) bool {
	return c.YearBuilt != nil && *c.YearBuilt >= cutoffYear
}

// RentalComp is a normalized rental listing used by the rent estimator.
type RentalComp struct {
	Lat      float64      `json:"lat"`
	Lng      float64      `json:"lng"`
	Rent     int          `json:"rent"`
	Beds     *int         `json:"bd,omitempty"`
	Baths    *float64     `json:"ba,omitempty"`
	Sqft     *int         `json:"sqft,omitempty"`
	PropType PropertyType `json:"pt,omitempty"`
	Zip      string       `json:"zip,omitempty"`
	Address  string       `json:"addr,omitempty"`
}

// Coords returns the rental comp's position for spatial indexing.
func (r *RentalComp) Coords() (float64, float64) { return r.Lat, r.Lng }

// SubdivComp is a confirmed small-lot subdivision sale with its
// appreciation-adjusted value. Raw and adjusted $/SF are both retained for
// auditability.
type SubdivComp struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PPSF        int     `json:"ppsf"`
	AdjPPSF     int     `json:"adj_ppsf"`
	Price       int     `json:"price"`
	Sqft        int     `json:"sqft"`
	LotSqft     int     `json:"lot"`
	YearBuilt   int     `json:"yb"`
	Sold        string  `json:"sold"`
	Zip         string  `json:"zip"`
	Zone        Zone    `json:"zone"`
	ClusterID   int     `json:"cluster_id"`
	ClusterSize int     `json:"cluster_size"`
	ApprPct     float64 `json:"appr_pct"`
}

// Coords returns the subdivision comp's position for spatial indexing.
func (s *SubdivComp) Coords() (float64, float64) { return s.Lat, s.Lng }

// ApprEntry is a zip-level trailing appreciation record.
type ApprEntry struct {
	ValNow   float64 `json:"val_now,omitempty"`
	Val12Mo  float64 `json:"val_12mo,omitempty"`
	Appr12Mo float64 `json:"appr_12mo"`
	Appr24Mo float64 `json:"appr_24mo,omitempty"`
}

// ApprIndex maps zip code to trailing home-price appreciation.
type ApprIndex map[string]ApprEntry

// FMREntry is a zip-level HUD Small Area Fair Market Rent record.
type FMREntry struct {
	FMR3BR int `json:"fmr3br"`
	FMR4BR int `json:"fmr4br,omitempty"`
}

// FMRIndex maps zip code to government fair-market rents.
type FMRIndex map[string]FMREntry

// RentIndex maps zip code to the market median asking rent (all types).
type RentIndex map[string]float64
