// Package domain defines the persistence models for reviews and upload
// receipts. These types are mapped with GORM and form the core data layer
// of the review sentiment backend.
package domain

import "time"

// Label is the sentiment class assigned to a review.
//
// LabelError is a transient marker used only while a bulk upload is being
// processed; rows carrying it are excluded before persistence and must never
// appear in the reviews table.
type Label int

const (
	LabelNotHappy Label = 0
	LabelHappy    Label = 1
	LabelError    Label = -1
)

// String returns the human-readable name of the label.
func (l Label) String() string {
	switch l {
	case LabelHappy:
		return "Happy"
	case LabelNotHappy:
		return "Not Happy"
	default:
		return "Error"
	}
}

// Valid reports whether the label is one of the two persistable classes.
func (l Label) Valid() bool { return l == LabelHappy || l == LabelNotHappy }

// Review represents one analyzed hotel review. Rows are created exactly once
// per analyzed review (single submission or one row of a bulk upload) and are
// never updated afterwards.
//
// Fields:
//   - ID: auto-incrementing surrogate key, assigned on insert, never reused.
//   - Timestamp: the point in time the review refers to. Nullable; rows with
//     a NULL timestamp are excluded from time-series reporting.
//   - ReviewText: the raw, unmodified input text.
//   - PredictedLabel: 1 (Happy) or 0 (Not Happy). The transient Error value
//     is filtered out before insert.
//   - CreatedAt: insert timestamp managed by GORM.
type Review struct {
	ID             uint       `json:"id"              gorm:"primaryKey;autoIncrement"`
	Timestamp      *time.Time `json:"timestamp"       gorm:"type:DATETIME;index"`
	ReviewText     string     `json:"review_text"     gorm:"type:text;not null"`
	PredictedLabel Label      `json:"predicted_label" gorm:"not null;check:predicted_label IN (0,1)"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// UploadReceipt records a completed bulk upload keyed by (client_id, key).
// It lets clients retry a CSV upload with the same Idempotency-Key without
// the rows being analyzed and inserted twice.
type UploadReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	ClientID  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_key,priority:2"`
	Inserted  int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (UploadReceipt) TableName() string { return "upload_receipts" }

// DailyCount is one point of the time-series aggregate: the number of reviews
// carrying a given label on a given calendar date.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD, time-of-day discarded
	Label Label  `json:"label"`
	Count int64  `json:"count"`
}

// AspectReport is the on-demand aggregate for a single search token.
// Invariant: Happy + NotHappy == Total.
type AspectReport struct {
	Token            string  `json:"token"`
	Total            int64   `json:"total_mentions"`
	Happy            int64   `json:"happy_mentions"`
	NotHappy         int64   `json:"not_happy_mentions"`
	PerformanceScore float64 `json:"performance_score"` // 100 * Happy / Total, only when Total > 0
}

// SummaryReport is the corpus-wide sentiment distribution. Unlike the daily
// time series it counts every stored review, undated ones included.
// Invariant: Happy + NotHappy == Total.
type SummaryReport struct {
	Total      int64   `json:"total"`
	Happy      int64   `json:"happy"`
	NotHappy   int64   `json:"not_happy"`
	LastInsert *string `json:"last_insert,omitempty"` // nil for an empty corpus
}

// WordCount is one bar of the top-words aggregate: a lemma and the number of
// times it occurs across all reviews carrying one label.
type WordCount struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}
