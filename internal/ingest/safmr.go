package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/model"
)

var (
	fmr3Pattern = regexp.MustCompile(`(safmr|fmr).*3\s*b|3\s*b.*rent`)
	fmr4Pattern = regexp.MustCompile(`(safmr|fmr).*4\s*b|4\s*b.*rent`)
	zipDigits   = regexp.MustCompile(`\d{5}`)
)

// ReadSAFMR parses the HUD Small Area Fair Market Rent workbook into a
// zip-keyed index. HUD shuffles the column layout between fiscal years,
// so the header row and columns are located by name within the first few
// rows rather than by position. Payment-standard variant columns (90%,
// 110%) are ignored.
func ReadSAFMR(path string) (model.FMRIndex, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open SAFMR workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: SAFMR workbook %s has no sheets", path)
	}
	sheet := f.Sheets[0]

	headerIdx, zipCol, fmr3Col, fmr4Col := findSAFMRColumns(sheet)
	if zipCol < 0 || fmr3Col < 0 {
		return nil, eris.Errorf("ingest: SAFMR workbook %s: zip or 3BR column not found", path)
	}

	idx := model.FMRIndex{}
	for i, row := range sheet.Rows {
		if i <= headerIdx {
			continue
		}
		cells := rowStrings(row)
		if zipCol >= len(cells) || fmr3Col >= len(cells) {
			continue
		}

		zip := zipDigits.FindString(cells[zipCol])
		if zip == "" {
			continue
		}
		fmr3 := parseDollars(cells[fmr3Col])
		if fmr3 <= 0 {
			continue
		}

		entry := model.FMREntry{FMR3BR: fmr3}
		if fmr4Col >= 0 && fmr4Col < len(cells) {
			entry.FMR4BR = parseDollars(cells[fmr4Col])
		}
		idx[zip] = entry
	}

	zap.L().Info("SAFMR workbook parsed",
		zap.String("path", path),
		zap.Int("zips", len(idx)),
	)
	return idx, nil
}

// findSAFMRColumns scans the first ten rows for a header containing a zip
// column and FMR columns.
func findSAFMRColumns(sheet *xlsx.Sheet) (headerIdx, zipCol, fmr3Col, fmr4Col int) {
	zipCol, fmr3Col, fmr4Col = -1, -1, -1
	for i, row := range sheet.Rows {
		if i >= 10 {
			break
		}
		cells := rowStrings(row)
		hasZip, hasFMR := false, false
		for _, c := range cells {
			lc := strings.ToLower(c)
			if strings.Contains(lc, "zip") {
				hasZip = true
			}
			if strings.Contains(lc, "fmr") || strings.Contains(lc, "rent") {
				hasFMR = true
			}
		}
		if !hasZip || !hasFMR {
			continue
		}

		headerIdx = i
		for j, c := range cells {
			lc := strings.ReplaceAll(strings.ToLower(c), "\n", " ")
			if strings.Contains(lc, "payment") || strings.Contains(lc, "90%") || strings.Contains(lc, "110%") {
				continue
			}
			if zipCol < 0 && strings.Contains(lc, "zip") {
				zipCol = j
			}
			if fmr3Col < 0 && fmr3Pattern.MatchString(lc) {
				fmr3Col = j
			}
			if fmr4Col < 0 && fmr4Pattern.MatchString(lc) {
				fmr4Col = j
			}
		}
		return headerIdx, zipCol, fmr3Col, fmr4Col
	}
	return 0, zipCol, fmr3Col, fmr4Col
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = strings.TrimSpace(cell.String())
	}
	return out
}

func parseDollars(s string) int {
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
