package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/model"
)

var zoriDateCol = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ReadZORI parses a Zillow Observed Rent Index export and returns the
// latest observed median asking rent per California zip code. The file
// carries one dated column per month; only the most recent is read.
func ReadZORI(path string) (model.RentIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("zori file missing, zip rent index disabled", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrapf(err, "ingest: open zori %s", path)
	}
	defer f.Close() //nolint:errcheck

	return parseZORI(f, path)
}

func parseZORI(src io.Reader, path string) (model.RentIndex, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read zori header")
	}

	zipCol, stateCol, latestCol := -1, -1, -1
	var dateCols []string
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		colIdx[h] = i
		switch {
		case h == "RegionName":
			zipCol = i
		case h == "State":
			stateCol = i
		case zoriDateCol.MatchString(h):
			dateCols = append(dateCols, h)
		}
	}
	if zipCol < 0 || stateCol < 0 || len(dateCols) == 0 {
		return nil, eris.Errorf("ingest: zori header missing expected columns in %s", path)
	}
	sort.Strings(dateCols)
	latest := dateCols[len(dateCols)-1]
	latestCol = colIdx[latest]

	index := make(model.RentIndex)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A mangled row is skipped like any other bad value; an I/O
			// failure would silently truncate the index, so it surfaces.
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, eris.Wrapf(err, "ingest: read zori row in %s", path)
		}
		if stateCol >= len(rec) || latestCol >= len(rec) || zipCol >= len(rec) {
			continue
		}
		if rec[stateCol] != "CA" {
			continue
		}
		raw := strings.TrimSpace(rec[latestCol])
		if raw == "" {
			continue
		}
		rent, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		index[rec[zipCol]] = rent
	}

	zap.L().Info("loaded zip rent index",
		zap.Int("zips", len(index)),
		zap.String("month", latest),
	)
	return index, nil
}
