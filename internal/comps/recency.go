package comps

import (
	"strings"
	"time"
)

// Sale-date layouts seen in the wild, tried in order. Redfin exports use
// "January-15-2025"; older snapshots use ISO or US slash dates.
var saleDateLayouts = []string{
	"January-2-2006",
	"2006-01-02",
	"1/2/2006",
}

// ParseSaleDate parses a raw sale-date string, returning nil when no known
// layout matches.
func ParseSaleDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// RecencyWeight returns the time-decay weight for a sale. Undated or
// unparseable sales get a neutral 0.5 so they contribute without dominating.
func RecencyWeight(saleDate string, now time.Time) float64 {
	t := ParseSaleDate(saleDate)
	if t == nil {
		return 0.5
	}
	monthsAgo := now.Sub(*t).Hours() / 24 / 30.44
	switch {
	case monthsAgo <= 6:
		return 1.0
	case monthsAgo <= 12:
		return 0.85
	case monthsAgo <= 18:
		return 0.65
	case monthsAgo <= 24:
		return 0.50
	case monthsAgo <= 36:
		return 0.35
	default:
		return 0.20
	}
}
