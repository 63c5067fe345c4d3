package ingest

import (
	"time"

	"github.com/araddon/dateparse"
)

// Row is a review line whose date has been resolved to a canonical timestamp.
type Row struct {
	Timestamp time.Time
	Text      string
}

// NormalizeTimestamps best-effort parses each raw row's date field and
// returns the rows that parsed plus the number that did not. The parser
// recognizes a wide range of formats without assuming a fixed locale
// ordering; rows whose dates cannot be understood are excluded rather than
// guessed at, and the caller must surface the dropped count instead of
// silently discarding them.
//
// Re-running on already-canonical timestamps is a no-op: an RFC 3339 string
// round-trips to the same instant.
func NormalizeTimestamps(rows []RawRow) ([]Row, int) {
	out := make([]Row, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		ts, err := dateparse.ParseAny(r.TimeStamp)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, Row{Timestamp: ts, Text: r.Description})
	}
	return out, dropped
}
