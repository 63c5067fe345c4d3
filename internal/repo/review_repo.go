// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review
// model. The repository is "thin": it performs persistence and simple query
// composition, leaving business rules (label filtering, aspect matching) to
// the services package.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stayview/go-review-backend/internal/domain"
)

// CreateReview inserts a single analyzed review row. The label must be a
// persistable class; the transient Error marker is rejected here as a last
// line of defense.
func CreateReview(ctx context.Context, db *gorm.DB, ts *time.Time, text string, label domain.Label) (*domain.Review, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("refusing to persist non-final label %d", label)
	}
	r := &domain.Review{
		Timestamp:      ts,
		ReviewText:     text,
		PredictedLabel: label,
		CreatedAt:      time.Now().UTC(),
	}
	return r, db.WithContext(ctx).Create(r).Error
}

// CreateReviews bulk-inserts analyzed rows in a single transaction, so a
// bulk upload is all-or-nothing at the storage layer. Rows with a non-final
// label are rejected before anything is written.
func CreateReviews(ctx context.Context, db *gorm.DB, rows []domain.Review) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if !rows[i].PredictedLabel.Valid() {
			return fmt.Errorf("row %d carries non-final label %d", i, rows[i].PredictedLabel)
		}
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 200).Error
	})
}

// CountReviews returns the total number of stored reviews. A raw COUNT is
// used so a missing table surfaces as an error.
func CountReviews(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM reviews").Scan(&total).Error
	return total, err
}

// ListReviewsPage returns a page of reviews ordered newest first
// (Timestamp DESC with NULLs last, then ID DESC for a stable order).
func ListReviewsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Order("timestamp IS NULL, timestamp DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListClassified returns every stored review, oldest insert first. This is
// the single full-corpus query behind aspect aggregation; at the current
// scale a scan is fine, and isolating it here lets an inverted text index
// replace it later without changing the service contract.
func ListClassified(ctx context.Context, db *gorm.DB) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("predicted_label IN (0,1)").
		Order("id ASC").
		Find(&out).Error
	return out, err
}
