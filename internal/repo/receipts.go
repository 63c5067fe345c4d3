// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the UploadReceipt
// model used to deduplicate retried bulk uploads.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayview/go-review-backend/internal/domain"
)

// ErrDuplicate indicates that a receipt already exists for the given
// (client_id, key) pair.
var ErrDuplicate = errors.New("duplicate")

// GetUploadReceipt returns a non-expired receipt or ErrNotFound.
func GetUploadReceipt(ctx context.Context, db *gorm.DB, clientID, key string, now time.Time) (*domain.UploadReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.UploadReceipt
	err := db.WithContext(ctx).
		Where("client_id = ? AND key = ? AND expires_at > ?", clientID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateUploadReceipt records a completed upload and returns ErrDuplicate on
// unique violation.
func CreateUploadReceipt(ctx context.Context, db *gorm.DB, clientID, key string, inserted int, ttl time.Duration) (*domain.UploadReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.UploadReceipt{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Key:       key,
		Inserted:  inserted,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
