package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeReviews_Valid(t *testing.T) {
	in := "Time_Stamp,Description\n2024-01-05,Great stay\n2024-01-06,\"Noisy, dirty room\"\n"

	rows, err := DecodeReviews(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("DecodeReviews: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TimeStamp != "2024-01-05" || rows[0].Description != "Great stay" {
		t.Fatalf("row 0 mismatch: %+v", rows[0])
	}
	if rows[1].Description != "Noisy, dirty room" {
		t.Fatalf("quoted field mishandled: %+v", rows[1])
	}
}

func TestDecodeReviews_ColumnOrderAndExtras(t *testing.T) {
	in := "Hotel,Description,Time_Stamp\nSeaside,Lovely pool,05/01/2024\n"

	rows, err := DecodeReviews(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("DecodeReviews: %v", err)
	}
	if rows[0].Description != "Lovely pool" || rows[0].TimeStamp != "05/01/2024" {
		t.Fatalf("column mapping broken: %+v", rows[0])
	}
}

func TestDecodeReviews_MissingColumns(t *testing.T) {
	cases := []string{
		"Date,Description\n2024-01-05,text\n",
		"Time_Stamp,Text\n2024-01-05,text\n",
		"foo,bar\n1,2\n",
		"",
	}
	for _, in := range cases {
		if _, err := DecodeReviews(strings.NewReader(in), 0); !errors.Is(err, ErrMissingColumns) {
			t.Fatalf("input %q: expected ErrMissingColumns, got %v", in, err)
		}
	}
}

func TestDecodeReviews_RowCap(t *testing.T) {
	in := "Time_Stamp,Description\n2024-01-05,a\n2024-01-06,b\n2024-01-07,c\n"

	if _, err := DecodeReviews(strings.NewReader(in), 2); !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("expected ErrTooManyRows, got %v", err)
	}
	if rows, err := DecodeReviews(strings.NewReader(in), 3); err != nil || len(rows) != 3 {
		t.Fatalf("cap equal to row count should pass: rows=%d err=%v", len(rows), err)
	}
}

func TestNormalizeTimestamps_DropsUnparseable(t *testing.T) {
	rows := []RawRow{
		{TimeStamp: "2024-01-05", Description: "Great stay"},
		{TimeStamp: "not-a-date", Description: "Bad room"},
	}

	out, dropped := NormalizeTimestamps(rows)
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(out) != 1 || out[0].Text != "Great stay" {
		t.Fatalf("unexpected surviving rows: %+v", out)
	}
	if out[0].Timestamp.Year() != 2024 || out[0].Timestamp.Month() != 1 || out[0].Timestamp.Day() != 5 {
		t.Fatalf("timestamp parsed wrong: %v", out[0].Timestamp)
	}
}

func TestNormalizeTimestamps_MixedFormats(t *testing.T) {
	rows := []RawRow{
		{TimeStamp: "2024-03-10 14:30:00", Description: "a"},
		{TimeStamp: "10 Mar 2024", Description: "b"},
		{TimeStamp: "03/10/2024", Description: "c"},
	}

	out, dropped := NormalizeTimestamps(rows)
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}
	for _, r := range out {
		if r.Timestamp.Year() != 2024 || r.Timestamp.Month() != 3 || r.Timestamp.Day() != 10 {
			t.Fatalf("row %q parsed to %v", r.Text, r.Timestamp)
		}
	}
}

func TestNormalizeTimestamps_Idempotent(t *testing.T) {
	rows := []RawRow{{TimeStamp: "2024-01-05T09:30:00Z", Description: "x"}}

	first, dropped := NormalizeTimestamps(rows)
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	// Feed the canonical form back through: same instant, nothing dropped.
	again, dropped := NormalizeTimestamps([]RawRow{{
		TimeStamp:   first[0].Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Description: "x",
	}})
	if dropped != 0 {
		t.Fatalf("re-run dropped = %d, want 0", dropped)
	}
	if !again[0].Timestamp.Equal(first[0].Timestamp) {
		t.Fatalf("re-run changed the instant: %v vs %v", again[0].Timestamp, first[0].Timestamp)
	}
}
