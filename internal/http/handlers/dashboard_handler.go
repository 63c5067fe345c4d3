// Dashboard HTTP handlers.
//
// This file exposes the read-side aggregate endpoints backing the sentiment
// dashboard:
//   - GET /dashboard/timeseries  (per-day Happy / Not Happy counts)
//   - GET /dashboard/summary     (corpus-wide sentiment distribution)
//   - GET /dashboard/topwords    (most frequent lemmas for one label)
//   - GET /dashboard/aspect      (counts and score for one aspect token)
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/services"
	"github.com/stayview/go-review-backend/internal/utils"
)

// DashboardService defines the aggregate queries consumed by dashboard
// handlers. Implementations should be safe for concurrent use and must honor
// the provided context for cancellation and timeouts.
type DashboardService interface {
	// TimeSeries returns per-day sentiment counts ordered by date.
	TimeSeries(ctx context.Context) ([]domain.DailyCount, error)
	// Summary returns the corpus-wide sentiment distribution.
	Summary(ctx context.Context) (domain.SummaryReport, error)
	// TopWords returns the n most frequent lemmas among reviews with label.
	TopWords(ctx context.Context, label domain.Label, n int) ([]domain.WordCount, error)
	// Aspect returns mention counts and the performance score for one token.
	Aspect(ctx context.Context, token string) (domain.AspectReport, error)
}

// TimeSeriesPoint is one day's worth of counts in the time-series response.
type TimeSeriesPoint struct {
	Date     string `json:"date" example:"2024-01-05"`
	Happy    int64  `json:"happy"`
	NotHappy int64  `json:"not_happy"`
}

// TimeSeriesResponse wraps the ordered daily sentiment counts.
type TimeSeriesResponse struct {
	Points []TimeSeriesPoint `json:"points"`
}

// SummaryResponse reports how the whole stored corpus splits by sentiment.
type SummaryResponse struct {
	Total      int64   `json:"total"`
	Happy      int64   `json:"happy"`
	NotHappy   int64   `json:"not_happy"`
	LastInsert *string `json:"last_insert,omitempty"`
}

// WordCountItem is one entry of the top-words response.
type WordCountItem struct {
	Word  string `json:"word" example:"room"`
	Count int64  `json:"count"`
}

// TopWordsResponse lists the most frequent lemmas for one sentiment label.
type TopWordsResponse struct {
	Label string          `json:"label" example:"happy"`
	Words []WordCountItem `json:"words"`
}

// AspectResponse reports aggregate sentiment for a single aspect token.
type AspectResponse struct {
	Token            string  `json:"token" example:"bed"`
	TotalMentions    int64   `json:"total_mentions"`
	HappyMentions    int64   `json:"happy_mentions"`
	NotHappyMentions int64   `json:"not_happy_mentions"`
	PerformanceScore float64 `json:"performance_score" example:"66.67"`
}

// DashboardHandlers groups the HTTP endpoints serving dashboard aggregates.
type DashboardHandlers struct {
	svc DashboardService
}

// NewDashboardHandlers constructs a DashboardHandlers bound to the service.
func NewDashboardHandlers(svc DashboardService) *DashboardHandlers {
	return &DashboardHandlers{svc: svc}
}

// TimeSeries handles GET /dashboard/timeseries.
//
// Per-label daily buckets from storage are folded into one point per date so
// the client can plot both series from a single array. Dates appear in
// ascending order; days without classified reviews are absent rather than
// zero-filled.
func (h *DashboardHandlers) TimeSeries(c *gin.Context) {
	counts, err := h.svc.TimeSeries(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	points := make([]TimeSeriesPoint, 0, len(counts))
	for _, dc := range counts {
		if len(points) == 0 || points[len(points)-1].Date != dc.Date {
			points = append(points, TimeSeriesPoint{Date: dc.Date})
		}
		p := &points[len(points)-1]
		switch dc.Label {
		case domain.LabelHappy:
			p.Happy = dc.Count
		case domain.LabelNotHappy:
			p.NotHappy = dc.Count
		}
	}

	ok(c, http.StatusOK, TimeSeriesResponse{Points: points})
}

// Summary handles GET /dashboard/summary.
//
// Unlike the time series, the distribution counts every stored review, dated
// or not. LastInsert is omitted for an empty corpus.
func (h *DashboardHandlers) Summary(c *gin.Context) {
	report, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, SummaryResponse{
		Total:      report.Total,
		Happy:      report.Happy,
		NotHappy:   report.NotHappy,
		LastInsert: report.LastInsert,
	})
}

// TopWords handles GET /dashboard/topwords?label=happy&n=15.
//
// The label is required and must be "happy" or "not_happy". n is optional;
// the service applies its default when it is absent or non-positive. A label
// with no reviews yields an empty word list, not an error.
func (h *DashboardHandlers) TopWords(c *gin.Context) {
	var label domain.Label
	raw := c.Query("label")
	switch raw {
	case "happy":
		label = domain.LabelHappy
	case "not_happy":
		label = domain.LabelNotHappy
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "label must be happy or not_happy")
		return
	}

	words, err := h.svc.TopWords(c.Request.Context(), label, utils.AtoiDefault(c.Query("n"), 0))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	items := make([]WordCountItem, 0, len(words))
	for _, w := range words {
		items = append(items, WordCountItem{Word: w.Word, Count: w.Count})
	}
	ok(c, http.StatusOK, TopWordsResponse{Label: raw, Words: items})
}

// Aspect handles GET /dashboard/aspect?token=bed.
//
// The token is canonicalized the same way review text is normalized, so
// "Beds" and "bed" address the same aspect. An empty or stopword-only token
// maps to 400; a token no classified review mentions maps to 404 with the
// no_data code rather than a zeroed report.
func (h *DashboardHandlers) Aspect(c *gin.Context) {
	report, err := h.svc.Aspect(c.Request.Context(), c.Query("token"))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmptyAspect):
		fail(c, http.StatusBadRequest, ErrCodeEmptyAspect, "aspect token is empty or carries no content")
		return
	case errors.Is(err, services.ErrNoData):
		fail(c, http.StatusNotFound, ErrCodeNoData, "no reviews mention this aspect")
		return
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, AspectResponse{
		Token:            report.Token,
		TotalMentions:    report.Total,
		HappyMentions:    report.Happy,
		NotHappyMentions: report.NotHappy,
		PerformanceScore: report.PerformanceScore,
	})
}
