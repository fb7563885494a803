package model

// Listing is an active for-sale record flowing through the enrichment
// pipeline. Input fields come from the source export; every estimator
// contributes only its own output fields and leaves the rest untouched, so
// stages can run in any order and re-runs are idempotent.
type Listing struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address,omitempty"`

	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zip  string  `json:"zip,omitempty"`
	Zone Zone    `json:"zone,omitempty"`

	Price     int          `json:"price,omitempty"`
	Sqft      *int         `json:"sqft,omitempty"`
	LotSqft   *int         `json:"lotSf,omitempty"`
	Beds      *int         `json:"beds,omitempty"`
	Baths     *float64     `json:"baths,omitempty"`
	YearBuilt *int         `json:"yearBuilt,omitempty"`
	PropType  PropertyType `json:"propType,omitempty"`

	SlopePct  *float64 `json:"slope,omitempty"`
	InVHFHSZ  *bool    `json:"fireZone,omitempty"`
	ZoneFixed bool     `json:"zoneFixed,omitempty"`

	// General exit estimator outputs.
	ExitPSF    *int     `json:"exitPsf,omitempty"`
	CompMethod string   `json:"compMethod,omitempty"`
	CompCount  int      `json:"compCount,omitempty"`
	CompRadius *float64 `json:"compRadius,omitempty"`

	// New-construction estimator outputs.
	NewConPSF       *int   `json:"newconPpsf,omitempty"`
	NewConCount     int    `json:"newconCount,omitempty"`
	NewConTier      string `json:"newconTier,omitempty"`
	NewConZoneMatch bool   `json:"newconZoneMatch,omitempty"`
	NewConFlag      string `json:"newconFlag,omitempty"`

	// Subdivision-comp estimator outputs.
	SubdivExitPSF   *int     `json:"subdivExitPsf,omitempty"`
	SubdivCompCount int      `json:"subdivCompCount,omitempty"`
	SubdivAvgAppr   *float64 `json:"subdivAvgAppr,omitempty"`

	// Rental estimator outputs.
	EstRentMonth  *int   `json:"estRentMonth,omitempty"`
	RentMethod    string `json:"rentMethod,omitempty"`
	RentCompCount int    `json:"rentCompCount,omitempty"`

	// BTR feasibility outputs.
	BTR *BTRResult `json:"btr,omitempty"`
}

// BTRScenario is one rent scenario's underwriting.
type BTRScenario struct {
	Rent int     `json:"rent"`
	NOI  int     `json:"noi"`
	YoC  float64 `json:"yoc"`
}

// BTRResult holds the build-to-rent underwriting for a listing. Eligible
// is true only when the site passed every hard screen, the for-sale exit
// does not already pencil, and the base-case yield on cost clears the
// target.
type BTRResult struct {
	Eligible bool `json:"eligible"`

	// FailedScreen names the first screen that disqualified the site;
	// empty when Eligible or when only the yield test failed.
	FailedScreen string `json:"failedScreen,omitempty"`

	Conservative *BTRScenario `json:"conservative,omitempty"`
	Base         *BTRScenario `json:"base,omitempty"`
	Aggressive   *BTRScenario `json:"aggressive,omitempty"`

	LandCost  int `json:"landCost,omitempty"`
	HardCost  int `json:"hardCost,omitempty"`
	SoftCost  int `json:"softCost,omitempty"`
	TotalCost int `json:"totalCost,omitempty"`

	// StabilizedValue is base NOI capitalized at the config cap rate.
	StabilizedValue int `json:"stabilizedValue,omitempty"`

	// SalePPSFGap is how far the neighborhood exit $/SF sits below the
	// for-sale threshold (negative means for-sale already works).
	SalePPSFGap int `json:"salePpsfGap,omitempty"`

	PremiumFactor float64 `json:"premiumFactor,omitempty"`
	RentSource    string  `json:"rentSource,omitempty"`
}
