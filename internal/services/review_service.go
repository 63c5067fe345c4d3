// Package services – ReviewService
//
// This file implements ReviewService, the application-level component that
// owns review analysis and persistence. It validates input, runs the
// configured predictor, and writes only final-labeled rows. The bulk path
// drives the whole CSV pipeline: decode, timestamp normalization, per-row
// inference, and a single atomic insert of the surviving rows.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// row counts rather than review text.
package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/ingest"
	"github.com/stayview/go-review-backend/internal/predict"
	"github.com/stayview/go-review-backend/internal/repo"
)

// ReviewService coordinates inference and review persistence.
type ReviewService struct {
	DB        *gorm.DB
	Predictor predict.Predictor

	// MaxReviewRunes caps single submissions; <= 0 disables the cap.
	MaxReviewRunes int
	// MaxUploadRows caps bulk uploads; <= 0 disables the cap.
	MaxUploadRows int
	// ReceiptTTL is how long a bulk-upload Idempotency-Key stays dedupable.
	ReceiptTTL time.Duration
}

// BulkReport summarizes one processed CSV upload. TotalRows counts data rows
// in the file; DroppedDates rows were excluded for unparseable timestamps;
// FailedPredictions rows were excluded for inference failures; Inserted rows
// reached the store. Inserted == TotalRows - DroppedDates - FailedPredictions.
type BulkReport struct {
	TotalRows         int `json:"total_rows"`
	DroppedDates      int `json:"dropped_dates"`
	FailedPredictions int `json:"failed_predictions"`
	Inserted          int `json:"inserted"`
}

// Analyze classifies a single review and persists it. The raw text is stored
// unmodified together with the predicted label. On any inference failure
// nothing is persisted and the error is surfaced to the caller.
func (s *ReviewService) Analyze(ctx context.Context, ts *time.Time, text string) (*domain.Review, predict.Result, error) {
	tr := otel.Tracer("services/ReviewService")
	ctx, span := tr.Start(ctx, "Analyze")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, predict.Result{}, ErrEmptyReview
	}
	if s.MaxReviewRunes > 0 && utf8.RuneCountInString(text) > s.MaxReviewRunes {
		return nil, predict.Result{}, ErrTooLong
	}

	res, err := s.Predictor.Predict(ctx, text)
	if err != nil {
		return nil, predict.Result{}, err
	}

	row, err := repo.CreateReview(ctx, s.DB, ts, text, res.Label)
	if err != nil {
		return nil, predict.Result{}, err
	}
	return row, res, nil
}

// ProcessCSV runs the bulk pipeline over an uploaded file. clientID and key
// come from the Idempotency-Key mechanism; an empty key disables dedupe.
//
// Rows whose dates cannot be parsed are dropped up front and counted. Each
// surviving row is classified independently; a row's inference failure marks
// that row failed and processing continues. Only rows with a final label are
// written, in one transaction, preserving the alignment between each stored
// text and the label predicted for it.
func (s *ReviewService) ProcessCSV(ctx context.Context, clientID, key string, file io.Reader) (BulkReport, error) {
	tr := otel.Tracer("services/ReviewService")
	ctx, span := tr.Start(ctx, "ProcessCSV",
		trace.WithAttributes(attribute.String("client.id", clientID)),
	)
	defer span.End()

	if key != "" {
		rec, err := repo.GetUploadReceipt(ctx, s.DB, clientID, key, time.Now().UTC())
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			// A lookup failure must not quietly disable dedupe.
			return BulkReport{}, err
		}
		if rec != nil {
			return BulkReport{}, ErrDuplicateUpload
		}
	}

	raw, err := ingest.DecodeReviews(file, s.MaxUploadRows)
	if err != nil {
		return BulkReport{}, err
	}

	rows, droppedDates := ingest.NormalizeTimestamps(raw)

	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	outcomes := predict.Batch(ctx, s.Predictor, texts)

	failed := 0
	toInsert := make([]domain.Review, 0, len(rows))
	for i, o := range outcomes {
		if o.Failed() {
			failed++
			continue
		}
		ts := rows[i].Timestamp
		toInsert = append(toInsert, domain.Review{
			Timestamp:      &ts,
			ReviewText:     rows[i].Text,
			PredictedLabel: o.Result.Label,
			CreatedAt:      time.Now().UTC(),
		})
	}

	if err := repo.CreateReviews(ctx, s.DB, toInsert); err != nil {
		return BulkReport{}, err
	}

	report := BulkReport{
		TotalRows:         len(raw),
		DroppedDates:      droppedDates,
		FailedPredictions: failed,
		Inserted:          len(toInsert),
	}
	span.SetAttributes(
		attribute.Int("upload.rows", report.TotalRows),
		attribute.Int("upload.inserted", report.Inserted),
	)

	if key != "" {
		ttl := s.ReceiptTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		// A lost receipt only weakens dedupe for retries; the upload itself
		// already succeeded, so do not fail the request over it.
		_, _ = repo.CreateUploadReceipt(ctx, s.DB, clientID, key, report.Inserted, ttl)
	}
	return report, nil
}

// ListPage returns a page of stored reviews, newest first, plus the total
// count. It applies defaults for invalid page/pageSize.
func (s *ReviewService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Review, int64, error) {
	tr := otel.Tracer("services/ReviewService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountReviews(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Review{}, 0, nil
	}

	items, err := repo.ListReviewsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
