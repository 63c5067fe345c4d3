// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate queries the dashboard is
// built from. Each function is context-aware and safe to call from services
// or handlers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/stayview/go-review-backend/internal/domain"
)

// DailySentimentCounts groups the stored corpus by calendar date and label,
// returning one count per (date, label) pair ordered by date ascending for
// stable plotting.
//
// Rows with a NULL timestamp are excluded: a review whose date could not be
// established has no place on a time axis. Only the two real classes are
// counted; the transient Error marker never reaches the table, but the
// predicate keeps the invariant explicit.
func DailySentimentCounts(ctx context.Context, db *gorm.DB) ([]domain.DailyCount, error) {
	var out []domain.DailyCount
	err := db.WithContext(ctx).Raw(`
		SELECT date(timestamp) AS date, predicted_label AS label, COUNT(*) AS count
		FROM reviews
		WHERE timestamp IS NOT NULL AND predicted_label IN (0,1)
		GROUP BY date(timestamp), predicted_label
		ORDER BY date(timestamp) ASC, predicted_label ASC
	`).Scan(&out).Error
	return out, err
}

// SentimentDistribution returns the corpus-wide count per label. Undated
// reviews are included: this aggregate lives on a category axis, not a time
// axis. A label with no reviews reports 0.
func SentimentDistribution(ctx context.Context, db *gorm.DB) (happy, notHappy int64, err error) {
	var rows []struct {
		Label domain.Label
		Count int64
	}
	err = db.WithContext(ctx).Raw(`
		SELECT predicted_label AS label, COUNT(*) AS count
		FROM reviews
		WHERE predicted_label IN (0,1)
		GROUP BY predicted_label
	`).Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch r.Label {
		case domain.LabelHappy:
			happy = r.Count
		case domain.LabelNotHappy:
			notHappy = r.Count
		}
	}
	return happy, notHappy, nil
}

// ReviewStats returns corpus-level metadata: the total row count and the
// most recent insert time, feeding the dashboard summary. When the corpus is
// empty, count is 0 and latest is nil.
func ReviewStats(ctx context.Context, db *gorm.DB) (count int64, latest *string, err error) {
	q := db.WithContext(ctx).Model(&domain.Review{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Avoid MAX() -> TEXT coercion surprises in SQLite.
	var row struct {
		CreatedAt string
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
