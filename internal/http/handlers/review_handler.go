// Review HTTP handlers.
//
// This file exposes REST endpoints for review resources:
//   - POST /reviews       (analyze a single review and store it)
//   - POST /reviews/bulk  (upload a CSV, classify every row, store results)
//   - GET  /reviews       (list, paginated, newest first)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/http/middleware"
	"github.com/stayview/go-review-backend/internal/ingest"
	"github.com/stayview/go-review-backend/internal/predict"
	"github.com/stayview/go-review-backend/internal/services"
	"github.com/stayview/go-review-backend/internal/utils"
)

// maxUploadBytes caps the size of an uploaded CSV file.
const maxUploadBytes = 32 << 20 // 32 MiB

//
// Service contracts (context-aware)
//

// ReviewService defines review analysis and listing operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReviewService interface {
	// Analyze classifies a single review and persists the outcome.
	Analyze(ctx context.Context, ts *time.Time, text string) (*domain.Review, predict.Result, error)
	// ProcessCSV classifies every row of a CSV upload and persists the results.
	ProcessCSV(ctx context.Context, clientID, key string, file io.Reader) (services.BulkReport, error)
	// ListPage returns a page of stored reviews and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Review, int64, error)
}

//
// DTOs
//

// AnalyzeReviewRequest is the JSON payload for analyzing a single review.
type AnalyzeReviewRequest struct {
	// Timestamp optionally dates the review; most common formats are accepted.
	Timestamp string `json:"timestamp" example:"2024-01-05"`
	// Text is the raw review text to classify.
	Text string `json:"text" binding:"required" example:"The room was wonderful and the staff were very helpful!"`
}

// AnalyzeReviewResponse reports the stored review and its predicted sentiment.
type AnalyzeReviewResponse struct {
	ID         uint    `json:"id"`
	Timestamp  string  `json:"timestamp,omitempty"`
	Label      string  `json:"label" example:"Happy"`
	Confidence float64 `json:"confidence" example:"0.93"`
}

// ReviewItem is a single stored review in list responses.
type ReviewItem struct {
	ID        uint   `json:"id"`
	Timestamp string `json:"timestamp,omitempty"`
	Text      string `json:"text"`
	Label     string `json:"label"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListReviewsResponse wraps a page of reviews and pagination information.
type ListReviewsResponse struct {
	Reviews    []ReviewItem `json:"reviews"`
	Pagination Pagination   `json:"pagination"`
}

//
// Handler wiring
//

// ReviewHandlers groups the HTTP endpoints for review analysis and listing.
// It depends on the abstract ReviewService to keep transport concerns
// separate from business logic.
type ReviewHandlers struct {
	svc ReviewService
}

// NewReviewHandlers constructs a ReviewHandlers bound to the given service.
func NewReviewHandlers(svc ReviewService) *ReviewHandlers {
	return &ReviewHandlers{svc: svc}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.ParsePage(c.Query("page"))
	pageSize = utils.ParsePageSize(c.Query("page_size"), defaultPageSize, maxPageSize)
	return
}

// fmtTimestamp renders an optional timestamp as RFC 3339, or "" when absent.
func fmtTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

//
// Handlers
//

// AnalyzeReview handles POST /reviews.
//
// It parses the optional timestamp, delegates classification and persistence
// to the review service, and returns 201 with the predicted label and its
// confidence. Validation failures map to 400; an unreachable or misbehaving
// prediction backend maps to 502 so callers can distinguish transient
// inference trouble from bad input.
func (h *ReviewHandlers) AnalyzeReview(c *gin.Context) {
	var req AnalyzeReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	var ts *time.Time
	if raw := strings.TrimSpace(req.Timestamp); raw != "" {
		parsed, err := dateparse.ParseAny(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unrecognized timestamp format")
			return
		}
		ts = &parsed
	}

	row, res, err := h.svc.Analyze(c.Request.Context(), ts, req.Text)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmptyReview):
		fail(c, http.StatusBadRequest, ErrCodeEmptyReview, "review text is empty")
		return
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeReviewTooLong, "review text exceeds the maximum length")
		return
	case errors.Is(err, predict.ErrUnavailable):
		fail(c, http.StatusBadGateway, ErrCodePredictionUnavailable, "prediction backend unavailable")
		return
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusCreated, AnalyzeReviewResponse{
		ID:         row.ID,
		Timestamp:  fmtTimestamp(row.Timestamp),
		Label:      row.PredictedLabel.String(),
		Confidence: res.Confidence,
	})
}

// BulkUpload handles POST /reviews/bulk.
//
// The request is a multipart form with a "file" field holding a CSV with
// Time_Stamp and Description columns. Rows with unparseable timestamps are
// dropped and counted; rows whose inference fails are skipped and counted;
// everything else is classified and persisted. The response is the ingestion
// report. A replayed Idempotency-Key maps to 409 without reprocessing.
func (h *ReviewHandlers) BulkUpload(c *gin.Context) {
	if middleware.IsReplay(c) {
		fail(c, http.StatusConflict, ErrCodeDuplicateUpload, "this file was already processed")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart field 'file' is required")
		return
	}
	if fh.Size > maxUploadBytes {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooManyRows, "uploaded file is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file")
		return
	}
	defer f.Close()

	key, _ := middleware.GetIdempotencyKey(c)
	report, err := h.svc.ProcessCSV(c.Request.Context(), middleware.GetClientID(c), key, f)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrDuplicateUpload):
		fail(c, http.StatusConflict, ErrCodeDuplicateUpload, "this file was already processed")
		return
	case errors.Is(err, ingest.ErrMissingColumns):
		fail(c, http.StatusBadRequest, ErrCodeMissingColumns, "CSV must contain Time_Stamp and Description columns")
		return
	case errors.Is(err, ingest.ErrTooManyRows):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooManyRows, "CSV exceeds the maximum row count")
		return
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().
		Int("total_rows", report.TotalRows).
		Int("dropped_dates", report.DroppedDates).
		Int("failed_predictions", report.FailedPredictions).
		Int("inserted", report.Inserted).
		Msg("bulk upload processed")

	ok(c, http.StatusOK, report)
}

// ListReviews handles GET /reviews.
//
// Returns a page of stored reviews ordered newest first (undated reviews
// last). Supports page and page_size query parameters.
func (h *ReviewHandlers) ListReviews(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.svc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]ReviewItem, 0, len(items))
	for _, r := range items {
		out = append(out, ReviewItem{
			ID:        r.ID,
			Timestamp: fmtTimestamp(r.Timestamp),
			Text:      r.ReviewText,
			Label:     r.PredictedLabel.String(),
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListReviewsResponse{
		Reviews: out,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
