package ingest

import (
	"context"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/model"
)

// Redfin export column names. The URL column header carries a long
// informational suffix, so it is matched by prefix instead.
const (
	colLat       = "LATITUDE"
	colLng       = "LONGITUDE"
	colPrice     = "PRICE"
	colSqft      = "SQUARE FEET"
	colLotSize   = "LOT SIZE"
	colSoldDate  = "SOLD DATE"
	colYearBuilt = "YEAR BUILT"
	colZip       = "ZIP OR POSTAL CODE"
	colPropType  = "PROPERTY TYPE"
	colBeds      = "BEDS"
	colBaths     = "BATHS"
	colAddress   = "ADDRESS"
	colCity      = "CITY"
	colStatus    = "STATUS"
	colFreshness = "FRESHNESS TIMESTAMP"
)

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

func numField(rec Record, col string) float64 {
	s := nonNumeric.ReplaceAllString(rec.Get(col), "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func coordFields(rec Record) (lat, lng float64, ok bool) {
	lat, latErr := strconv.ParseFloat(rec.Get(colLat), 64)
	lng, lngErr := strconv.ParseFloat(rec.Get(colLng), 64)
	return lat, lng, latErr == nil && lngErr == nil
}

// ReadSoldComps streams a sold-home export through the normalizer. The
// returned counts let callers log the rejection breakdown; an empty result
// is not an error here — the pipeline decides what an empty universe means.
func ReadSoldComps(ctx context.Context, path string, n *comps.Normalizer) ([]*model.Comp, comps.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, comps.Counts{}, eris.Wrapf(err, "ingest: open sold comps %s", path)
	}
	defer f.Close()

	var out []*model.Comp
	var counts comps.Counts

	recCh, errCh := StreamRecords(ctx, f)
	for rec := range recCh {
		raw := comps.RawSale{
			Lat:       rec.Get(colLat),
			Lng:       rec.Get(colLng),
			Price:     rec.Get(colPrice),
			Sqft:      rec.Get(colSqft),
			SoldDate:  rec.Get(colSoldDate),
			YearBuilt: rec.Get(colYearBuilt),
			Zip:       rec.Get(colZip),
			PropType:  rec.Get(colPropType),
			Beds:      rec.Get(colBeds),
			Baths:     rec.Get(colBaths),
			Address:   rec.Get(colAddress),
			City:      rec.Get(colCity),
		}
		c, reason := n.Normalize(raw, &counts)
		if reason != comps.SkipNone {
			continue
		}
		// Lot size rides along for the subdivision detector.
		if lot := numField(rec, colLotSize); lot > 0 {
			l := int(lot)
			c.LotSqft = &l
		}
		out = append(out, c)
	}
	if err := <-errCh; err != nil {
		return nil, counts, err
	}

	zap.L().Info("sold comps loaded",
		zap.String("path", path),
		zap.Int("total", counts.Total),
		zap.Int("kept", counts.Kept),
		zap.Int("skipped_bad", counts.Bad),
		zap.Int("skipped_no_date", counts.NoDate),
		zap.Int("skipped_outlier", counts.Outlier),
	)
	return out, counts, nil
}

// ReadListings reads an active-listings export. Non-active rows are
// dropped; land listings may legitimately have zero livable area.
func ReadListings(ctx context.Context, path string, bounds comps.Bounds) ([]*model.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open listings %s", path)
	}
	defer f.Close()

	var out []*model.Listing
	total, skipped := 0, 0

	recCh, errCh := StreamRecords(ctx, f)
	for rec := range recCh {
		total++

		lat, lng, ok := coordFields(rec)
		if !ok || !bounds.Contains(lat, lng) {
			skipped++
			continue
		}
		if rec.Get(colStatus) != "Active" {
			skipped++
			continue
		}

		price := numField(rec, colPrice)
		sqft := numField(rec, colSqft)
		propType := rec.Get(colPropType)
		zone := model.ZoneForPropertyType(propType)

		if price <= 0 {
			skipped++
			continue
		}
		if sqft <= 0 && zone != model.ZoneLand {
			skipped++
			continue
		}

		zip := rec.Get(colZip)
		l := &model.Listing{
			Lat:      math.Round(lat*1e6) / 1e6,
			Lng:      math.Round(lng*1e6) / 1e6,
			Zip:      zip,
			Zone:     zone,
			Price:    int(price),
			PropType: model.PropertyTypeForName(propType),
		}
		if sqft > 0 {
			s := int(sqft)
			l.Sqft = &s
		}
		if lot := numField(rec, colLotSize); lot > 0 {
			v := int(lot)
			l.LotSqft = &v
		}
		if beds := numField(rec, colBeds); beds > 0 {
			b := int(beds)
			l.Beds = &b
		}
		if baths := numField(rec, colBaths); baths > 0 {
			l.Baths = &baths
		}
		if yb, err := strconv.Atoi(rec.Get(colYearBuilt)); err == nil && yb > 0 {
			l.YearBuilt = &yb
		}

		var parts []string
		for _, p := range []string{rec.Get(colAddress), rec.Get(colCity), zip} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		l.Address = strings.Join(parts, ", ")

		out = append(out, l)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	zap.L().Info("listings loaded",
		zap.String("path", path),
		zap.Int("total", total),
		zap.Int("kept", len(out)),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

// Rental quality thresholds.
const (
	minRent        = 500
	maxRent        = 20_000
	minRentalSqft  = 100
	maxRentAgeDays = 150
)

// ReadRentalComps reads a rental-listings export, dropping out-of-bounds,
// implausible, and stale rows. Rows with unparseable freshness stamps are
// kept — staleness needs positive evidence.
func ReadRentalComps(ctx context.Context, path string, bounds comps.Bounds, now time.Time) ([]*model.RentalComp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open rental comps %s", path)
	}
	defer f.Close()

	var out []*model.RentalComp
	total, skipped, stale := 0, 0, 0

	recCh, errCh := StreamRecords(ctx, f)
	for rec := range recCh {
		total++

		lat, lng, ok := coordFields(rec)
		if !ok || !bounds.Contains(lat, lng) {
			skipped++
			continue
		}

		if ts := rec.Get(colFreshness); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				if now.Sub(t).Hours()/24 > maxRentAgeDays {
					stale++
					continue
				}
			}
		}

		rent := numField(rec, colPrice)
		if rent < minRent || rent > maxRent {
			skipped++
			continue
		}

		sqft := int(numField(rec, colSqft))
		if sqft > 0 && sqft < minRentalSqft {
			skipped++
			continue
		}

		zip := rec.Get(colZip)
		r := &model.RentalComp{
			Lat:      math.Round(lat*1e6) / 1e6,
			Lng:      math.Round(lng*1e6) / 1e6,
			Rent:     int(rent),
			PropType: model.PropertyTypeForName(rec.Get(colPropType)),
			Zip:      zip,
		}
		if beds := numField(rec, colBeds); beds > 0 {
			b := int(beds)
			r.Beds = &b
		}
		if baths := numField(rec, colBaths); baths > 0 {
			r.Baths = &baths
		}
		if sqft > 0 {
			r.Sqft = &sqft
		}

		var parts []string
		for _, p := range []string{rec.Get(colAddress), rec.Get(colCity), "CA", zip} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		r.Address = strings.Join(parts, " ")

		out = append(out, r)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	zap.L().Info("rental comps loaded",
		zap.String("path", path),
		zap.Int("total", total),
		zap.Int("kept", len(out)),
		zap.Int("skipped", skipped),
		zap.Int("stale", stale),
	)
	return out, nil
}
