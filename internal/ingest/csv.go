// Package ingest reads the external data drops the pipeline runs on:
// sold/active/rental CSV exports, the zip-level appreciation and rent
// index JSON files, and the HUD fair-market-rent workbook. Readers stream
// where the input can be large and tolerate per-row garbage; a malformed
// row is counted and skipped, never fatal.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one CSV row keyed by its header column names.
type Record map[string]string

// Get returns the trimmed value for a column, empty when absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// StreamRecords reads header-keyed CSV rows into a channel. The caller
// must drain the record channel; both channels close when processing
// completes. Rows with a different field count than the header are
// truncated or right-padded by the keying loop rather than rejected —
// real exports are ragged.
func StreamRecords(ctx context.Context, r io.Reader) (<-chan Record, <-chan error) {
	recCh := make(chan Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(recCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "ingest: read csv header")
			return
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: csv stream cancelled")
				return
			}

			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "ingest: read csv row")
				return
			}

			rec := make(Record, len(header))
			for i, col := range header {
				if i < len(row) {
					rec[col] = row[i]
				}
			}

			select {
			case recCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: csv stream cancelled")
				return
			}
		}
	}()

	return recCh, errCh
}
