// Package comps normalizes raw sale and rental exports into clean comp
// records and derives the per-comp fields the estimators depend on:
// recency weights, neighborhood medians, and condition tiers.
package comps

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yardsworth/dealfinder/internal/model"
)

// Outlier thresholds for sale records. Records outside these bounds are
// data-entry errors or commercial trades, not residential comps.
const (
	MinSqft      = 100
	MaxPrice     = 50_000_000
	MaxPPSF      = 5_000
	MinYearBuilt = 1800
)

// Bounds is the geographic envelope of a market. Records outside the
// envelope are dropped during normalization.
type Bounds struct {
	LatMin float64 `yaml:"lat_min" json:"lat_min"`
	LatMax float64 `yaml:"lat_max" json:"lat_max"`
	LngMin float64 `yaml:"lng_min" json:"lng_min"`
	LngMax float64 `yaml:"lng_max" json:"lng_max"`
}

// Contains reports whether (lat, lng) falls inside the envelope.
func (b Bounds) Contains(lat, lng float64) bool {
	return b.LatMin <= lat && lat <= b.LatMax && b.LngMin <= lng && lng <= b.LngMax
}

// RawSale is one unvalidated row from a sold-home export.
type RawSale struct {
	Lat       string
	Lng       string
	Price     string
	Sqft      string
	SoldDate  string
	YearBuilt string
	Zip       string
	PropType  string
	Beds      string
	Baths     string
	Address   string
	City      string
}

// SkipReason explains why a row was rejected during normalization.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipBadRecord
	SkipNoDate
	SkipOutlier
)

// Counts tallies normalization outcomes for one input file.
type Counts struct {
	Total   int
	Kept    int
	Bad     int
	NoDate  int
	Outlier int
}

func (c *Counts) record(r SkipReason) {
	c.Total++
	switch r {
	case SkipNone:
		c.Kept++
	case SkipNoDate:
		c.NoDate++
	case SkipOutlier:
		c.Outlier++
	default:
		c.Bad++
	}
}

// Normalizer validates raw sale rows against a market envelope. Now anchors
// recency math so a batch is internally consistent.
type Normalizer struct {
	Bounds Bounds
	Now    time.Time
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

func cleanFloat(s string) (float64, bool) {
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Normalize converts one raw row into a comp, or returns the reason it was
// rejected. Bogus build years are nulled rather than rejecting the row.
func (n *Normalizer) Normalize(raw RawSale, counts *Counts) (*model.Comp, SkipReason) {
	c, reason := n.normalize(raw)
	if counts != nil {
		counts.record(reason)
	}
	return c, reason
}

func (n *Normalizer) normalize(raw RawSale) (*model.Comp, SkipReason) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(raw.Lat), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(raw.Lng), 64)
	if latErr != nil || lngErr != nil || !n.Bounds.Contains(lat, lng) {
		return nil, SkipBadRecord
	}

	price, _ := cleanFloat(raw.Price)
	sqft, _ := cleanFloat(raw.Sqft)
	if price <= 0 || sqft <= 0 {
		return nil, SkipBadRecord
	}

	// Comps without sale dates cannot be time-filtered or recency-weighted.
	soldDate := strings.TrimSpace(raw.SoldDate)
	if soldDate == "" {
		return nil, SkipNoDate
	}

	ppsf := int(price/sqft + 0.5)
	if sqft < MinSqft || price > MaxPrice || ppsf > MaxPPSF {
		return nil, SkipOutlier
	}

	var yearBuilt *int
	if yb, err := strconv.Atoi(strings.TrimSpace(raw.YearBuilt)); err == nil {
		if yb >= MinYearBuilt && yb <= n.Now.Year() {
			yearBuilt = &yb
		}
	}

	zip := strings.TrimSpace(raw.Zip)
	propType := strings.TrimSpace(raw.PropType)

	var beds *int
	if b, ok := cleanFloat(raw.Beds); ok {
		bi := int(b)
		beds = &bi
	}
	var baths *float64
	if b, ok := cleanFloat(raw.Baths); ok {
		baths = &b
	}

	var parts []string
	for _, p := range []string{strings.TrimSpace(raw.Address), strings.TrimSpace(raw.City), "CA", zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	c := &model.Comp{
		Lat:       lat,
		Lng:       lng,
		Price:     int(price),
		Sqft:      int(sqft),
		PPSF:      ppsf,
		Zone:      model.ZoneForPropertyType(propType),
		Zip:       zip,
		Date:      soldDate,
		YearBuilt: yearBuilt,
		Beds:      beds,
		Baths:     baths,
		PropType:  model.PropertyTypeForName(propType),
		Address:   strings.Join(parts, " "),
	}
	if t := ParseSaleDate(soldDate); t != nil {
		c.SaleDate = t
	}
	c.RecencyWeight = RecencyWeight(soldDate, n.Now)
	return c, SkipNone
}
