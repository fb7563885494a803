package model

// Comp search method labels, in descending order of confidence. The method
// string records how an estimate was produced so downstream consumers can
// discount low-confidence values.
const (
	MethodZone     = "zone"      // same zone, tight radius, full sample
	MethodZoneWide = "zone_wide" // same zone, widened radius
	MethodZoneThin = "zone_thin" // same zone, thin sample accepted
	MethodAll      = "all"       // all zones, full sample
	MethodAllThin  = "all_thin"  // all zones, thin sample accepted
	MethodZipZone  = "zip+zone"  // zip-level fallback within zone
	MethodZip      = "zip"       // zip-level fallback, all zones
	MethodNone     = "none"      // no estimate possible
)

// Rent estimation method labels, tier 1 (best) through tier 5.
const (
	RentMethodComps        = "comps"         // direct rental comps
	RentMethodCompsRelaxed = "comps_relaxed" // relaxed-bed comps, adjusted up
	RentMethodZipIndex     = "zip_index"     // market median rent, adjusted up
	RentMethodSAFMR        = "safmr"         // HUD fair market rent, adjusted up
	RentMethodNone         = "none"
)

// New-construction vintage tier labels.
const (
	NewConTierNewest2 = "newest_2y"
	NewConTierNewest3 = "newest_3y"
	NewConTierAll     = "all_discounted"
)

// ExitEstimate is the general exit $/SF result.
type ExitEstimate struct {
	Value       *int
	CompCount   int
	RadiusMiles float64
	Method      string
}

// NewConEstimate is the new-construction $/SF result.
type NewConEstimate struct {
	Value       *int
	CompCount   int
	Tier        string
	ZoneMatched bool
	Flag        string
}

// SubdivEstimate is the subdivision-comp exit $/SF result.
type SubdivEstimate struct {
	Value      *int
	CompCount  int
	AvgApprPct *float64
}

// RentEstimate is the monthly rent result.
type RentEstimate struct {
	Value            *int
	Method           string
	CompCount        int
	RadiusMiles      float64
	SampleMedianBeds *float64
}
