// Package ingest handles bulk CSV intake: decoding uploaded files into raw
// review rows and normalizing their heterogeneous date strings into canonical
// timestamps. Validation problems are user-facing errors; no partial
// processing is attempted on a malformed file.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names the uploaded CSV must contain. Extra columns are ignored and
// column order does not matter.
const (
	ColumnTimestamp   = "Time_Stamp"
	ColumnDescription = "Description"
)

// ErrMissingColumns indicates the uploaded CSV does not carry the required
// Time_Stamp and Description columns.
var ErrMissingColumns = errors.New("csv must contain Time_Stamp and Description columns")

// ErrTooManyRows indicates the upload exceeds the configured row cap.
var ErrTooManyRows = errors.New("csv exceeds the maximum allowed number of rows")

// RawRow is one undecoded review line from an upload: the date string exactly
// as the user provided it plus the review text.
type RawRow struct {
	TimeStamp   string
	Description string
}

// DecodeReviews reads an uploaded CSV and returns its rows. The header must
// include Time_Stamp and Description; any other shape is a validation error,
// not a crash. maxRows <= 0 disables the row cap.
func DecodeReviews(r io.Reader, maxRows int) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	tsIdx, descIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnTimestamp:
			tsIdx = i
		case ColumnDescription:
			descIdx = i
		}
	}
	if tsIdx < 0 || descIdx < 0 {
		return nil, ErrMissingColumns
	}

	var rows []RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		if tsIdx >= len(rec) || descIdx >= len(rec) {
			return nil, fmt.Errorf("csv row %d has too few columns", len(rows)+2)
		}
		rows = append(rows, RawRow{
			TimeStamp:   strings.TrimSpace(rec[tsIdx]),
			Description: rec[descIdx],
		})
		if maxRows > 0 && len(rows) > maxRows {
			return nil, fmt.Errorf("%w (limit %d)", ErrTooManyRows, maxRows)
		}
	}
	return rows, nil
}
