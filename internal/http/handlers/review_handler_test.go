package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/http/middleware"
	"github.com/stayview/go-review-backend/internal/ingest"
	"github.com/stayview/go-review-backend/internal/predict"
	"github.com/stayview/go-review-backend/internal/services"
)

// stubReviewService lets each test script the service outcome.
type stubReviewService struct {
	analyzeRow *domain.Review
	analyzeRes predict.Result
	analyzeErr error

	report    services.BulkReport
	bulkErr   error
	gotClient string
	gotKey    string

	listItems []domain.Review
	listTotal int64
	listErr   error
	gotPage   int
	gotSize   int
}

func (s *stubReviewService) Analyze(_ context.Context, ts *time.Time, text string) (*domain.Review, predict.Result, error) {
	return s.analyzeRow, s.analyzeRes, s.analyzeErr
}

func (s *stubReviewService) ProcessCSV(_ context.Context, clientID, key string, file io.Reader) (services.BulkReport, error) {
	s.gotClient, s.gotKey = clientID, key
	_, _ = io.ReadAll(file)
	return s.report, s.bulkErr
}

func (s *stubReviewService) ListPage(_ context.Context, page, pageSize int) ([]domain.Review, int64, error) {
	s.gotPage, s.gotSize = page, pageSize
	return s.listItems, s.listTotal, s.listErr
}

func reviewRouter(svc ReviewService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReviewHandlers(svc)
	r.POST("/reviews", h.AnalyzeReview)
	r.POST("/reviews/bulk", h.BulkUpload)
	r.GET("/reviews", h.ListReviews)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return m
}

func TestAnalyzeReview_Success(t *testing.T) {
	ts := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	svc := &stubReviewService{
		analyzeRow: &domain.Review{
			Timestamp:      &ts,
			ReviewText:     "Lovely pool area",
			PredictedLabel: domain.LabelHappy,
		},
		analyzeRes: predict.Result{Label: domain.LabelHappy, Confidence: 0.93},
	}
	r := reviewRouter(svc)

	w := postJSON(t, r, "/reviews", `{"timestamp":"2024-01-05","text":"Lovely pool area"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["label"] != "Happy" || body["confidence"].(float64) != 0.93 {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["timestamp"] != "2024-01-05T00:00:00Z" {
		t.Fatalf("timestamp = %v", body["timestamp"])
	}
}

func TestAnalyzeReview_InputErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"missing text", `{"timestamp":"2024-01-05"}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad timestamp", `{"timestamp":"not a date","text":"x"}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"empty review", `{"text":"   "}`, services.ErrEmptyReview, http.StatusBadRequest, ErrCodeEmptyReview},
		{"too long", `{"text":"x"}`, services.ErrTooLong, http.StatusBadRequest, ErrCodeReviewTooLong},
		{"backend down", `{"text":"x"}`, predict.ErrUnavailable, http.StatusBadGateway, ErrCodePredictionUnavailable},
		{"other failure", `{"text":"x"}`, errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reviewRouter(&stubReviewService{analyzeErr: tc.svcErr})
			w := postJSON(t, r, "/reviews", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d; want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if body := decodeBody(t, w); body["code"] != tc.wantErr {
				t.Fatalf("code = %v; want %s", body["code"], tc.wantErr)
			}
		})
	}
}

func multipartCSV(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "reviews.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := io.WriteString(fw, csv); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestBulkUpload_Success_PassesClientAndKey(t *testing.T) {
	svc := &stubReviewService{
		report: services.BulkReport{TotalRows: 5, DroppedDates: 1, FailedPredictions: 1, Inserted: 3},
	}
	// the idempotency middleware stashes client id and key ahead of the handler
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.UploadIdempotency(middleware.UploadIdempotencyOptions{}, nil))
	r.POST("/reviews/bulk", NewReviewHandlers(svc).BulkUpload)

	buf, ct := multipartCSV(t, "Time_Stamp,Description\n2024-01-05,Nice stay\n")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews/bulk", buf)
	req.Header.Set("Content-Type", ct)
	req.Header.Set(middleware.HeaderClientID, "hotel-west")
	req.Header.Set(middleware.HeaderIdempotencyKey, "upload-42")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if svc.gotClient != "hotel-west" || svc.gotKey != "upload-42" {
		t.Fatalf("service got client=%q key=%q", svc.gotClient, svc.gotKey)
	}
	body := decodeBody(t, w)
	if body["total_rows"].(float64) != 5 || body["inserted"].(float64) != 3 {
		t.Fatalf("unexpected report: %v", body)
	}
}

func TestBulkUpload_MissingFile(t *testing.T) {
	r := reviewRouter(&stubReviewService{})
	w := postJSON(t, r, "/reviews/bulk", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestBulkUpload_ServiceErrors(t *testing.T) {
	cases := []struct {
		name     string
		svcErr   error
		wantCode int
		wantErr  string
	}{
		{"duplicate", services.ErrDuplicateUpload, http.StatusConflict, ErrCodeDuplicateUpload},
		{"missing columns", ingest.ErrMissingColumns, http.StatusBadRequest, ErrCodeMissingColumns},
		{"too many rows", ingest.ErrTooManyRows, http.StatusRequestEntityTooLarge, ErrCodeTooManyRows},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reviewRouter(&stubReviewService{bulkErr: tc.svcErr})
			buf, ct := multipartCSV(t, "Time_Stamp,Description\n2024-01-05,ok\n")
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/reviews/bulk", buf)
			req.Header.Set("Content-Type", ct)
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantCode)
			}
			if body := decodeBody(t, w); body["code"] != tc.wantErr {
				t.Fatalf("code = %v; want %s", body["code"], tc.wantErr)
			}
		})
	}
}

func TestBulkUpload_ReplayShortCircuits(t *testing.T) {
	svc := &stubReviewService{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// mimic the middleware having detected a replayed key
	r.Use(func(c *gin.Context) { c.Set("idem.replay", true); c.Next() })
	r.POST("/reviews/bulk", NewReviewHandlers(svc).BulkUpload)

	buf, ct := multipartCSV(t, "Time_Stamp,Description\n2024-01-05,ok\n")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews/bulk", buf)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d; want 409", w.Code)
	}
	if svc.gotClient != "" || svc.gotKey != "" {
		t.Fatalf("service must not be called on replay")
	}
}

func TestListReviews_PaginationEnvelope(t *testing.T) {
	ts := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	svc := &stubReviewService{
		listItems: []domain.Review{
			{Timestamp: &ts, ReviewText: "Spotless room", PredictedLabel: domain.LabelHappy},
			{ReviewText: "Thin walls", PredictedLabel: domain.LabelNotHappy},
		},
		listTotal: 42,
	}
	r := reviewRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews?page=2&page_size=10", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.gotPage != 2 || svc.gotSize != 10 {
		t.Fatalf("service got page=%d size=%d", svc.gotPage, svc.gotSize)
	}

	body := decodeBody(t, w)
	pg := body["pagination"].(map[string]any)
	if pg["total"].(float64) != 42 || pg["total_pages"].(float64) != 5 || pg["has_next"] != true {
		t.Fatalf("unexpected pagination: %v", pg)
	}
	reviews := body["reviews"].([]any)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	first := reviews[0].(map[string]any)
	if first["label"] != "Happy" || first["timestamp"] != "2024-01-06T12:00:00Z" {
		t.Fatalf("unexpected first item: %v", first)
	}
	// undated reviews omit the timestamp field entirely
	second := reviews[1].(map[string]any)
	if _, present := second["timestamp"]; present {
		t.Fatalf("undated review should omit timestamp: %v", second)
	}
}

func TestListReviews_ClampsBogusParams(t *testing.T) {
	svc := &stubReviewService{}
	r := reviewRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews?page=-3&page_size=9999", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.gotPage != 1 || svc.gotSize != 100 {
		t.Fatalf("expected clamped page=1 size=100, got page=%d size=%d", svc.gotPage, svc.gotSize)
	}
}

func TestListReviews_ServiceError(t *testing.T) {
	r := reviewRouter(&stubReviewService{listErr: errors.New("db gone")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != ErrCodeListFailed {
		t.Fatalf("code = %v; want %s", body["code"], ErrCodeListFailed)
	}
}
