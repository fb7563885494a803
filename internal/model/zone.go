// Package model defines the core record types exchanged between the
// ingestion, indexing, and estimation layers.
package model

// Zone is a coarse SB 1123 zoning category. Authoritative zoning codes are
// collapsed into this small set; when no authoritative code is available the
// listing's property type supplies an approximate zone.
type Zone string

const (
	ZoneR1      Zone = "R1"
	ZoneR2      Zone = "R2"
	ZoneR3      Zone = "R3"
	ZoneR4      Zone = "R4"
	ZoneLand    Zone = "LAND"
	ZoneUnknown Zone = ""
)

// typeToZone maps a source property type to an approximate SB 1123 zone.
// Used as a fallback when real zoning is unavailable.
var typeToZone = map[string]Zone{
	"Single Family Residential": ZoneR1,
	"Townhouse":                 ZoneR2,
	"Condo/Co-op":               ZoneR2,
	"Multi-Family (2-4 Unit)":   ZoneR3,
	"Multi-Family (5+ Unit)":    ZoneR4,
	"Mobile/Manufactured Home":  ZoneR1,
	"Ranch":                     ZoneR1,
	"Vacant Land":               ZoneLand,
	"Other":                     ZoneLand,
}

// ZoneForPropertyType returns the approximate zone for a source property
// type, or ZoneUnknown when the type is unrecognized.
func ZoneForPropertyType(propType string) Zone {
	return typeToZone[propType]
}

// adjacentZones lists, for each residential zone, the zones whose product is
// close enough in kind to borrow new-construction comps from when the
// same-zone pool is empty.
var adjacentZones = map[Zone][]Zone{
	ZoneR1: {ZoneR2},
	ZoneR2: {ZoneR3, ZoneR1},
	ZoneR3: {ZoneR2, ZoneR4},
	ZoneR4: {ZoneR3},
}

// AdjacentZones returns the borrow-from zones for z, in preference order.
func AdjacentZones(z Zone) []Zone {
	return adjacentZones[z]
}

// ResidentialZones lists the zones that carry sold comps.
var ResidentialZones = []Zone{ZoneR1, ZoneR2, ZoneR3, ZoneR4}

// IsMultifamilyTrack reports whether z belongs to the multifamily track.
func (z Zone) IsMultifamilyTrack() bool {
	switch z {
	case ZoneR2, ZoneR3, ZoneR4:
		return true
	}
	return false
}

// PropertyType is a compact numeric code for a source property type,
// preserved alongside the zone for comp weighting.
type PropertyType int

const (
	PropUnknown   PropertyType = 0
	PropSFR       PropertyType = 1
	PropCondo     PropertyType = 2
	PropTownhouse PropertyType = 3
	PropMF24      PropertyType = 4
	PropMF5Plus   PropertyType = 5
)

var typeToCode = map[string]PropertyType{
	"Single Family Residential": PropSFR,
	"Townhouse":                 PropTownhouse,
	"Condo/Co-op":               PropCondo,
	"Multi-Family (2-4 Unit)":   PropMF24,
	"Multi-Family (5+ Unit)":    PropMF5Plus,
	"Mobile/Manufactured Home":  PropSFR,
	"Ranch":                     PropSFR,
}

// PropertyTypeForName returns the compact code for a source property type.
func PropertyTypeForName(name string) PropertyType {
	return typeToCode[name]
}
