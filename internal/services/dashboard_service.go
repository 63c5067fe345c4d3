// Package services – DashboardService
//
// This file implements the aggregate queries behind the dashboard: the
// per-day sentiment time series, the corpus-wide sentiment summary, the
// top-words ranking per sentiment, and the per-aspect performance report.
// The time series is computed in SQL; aspect matching runs over a normalized
// in-memory copy of the corpus so that matching is whole-word and plural
// forms collapse onto the same lemma ("beds" counts as "bed", "bedroom"
// does not).
package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/nlp"
	"github.com/stayview/go-review-backend/internal/repo"
)

// DefaultTopWords is how many lemmas TopWords returns when the caller does
// not ask for a specific count.
const DefaultTopWords = 15

// DashboardService computes reportable metrics from the persisted corpus.
type DashboardService struct {
	DB   *gorm.DB
	Norm *nlp.Normalizer
}

// TimeSeries returns per-day counts of Happy and Not Happy reviews, ordered
// by date ascending. Rows without a usable timestamp are excluded.
func (s *DashboardService) TimeSeries(ctx context.Context) ([]domain.DailyCount, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "TimeSeries")
	defer span.End()

	counts, err := repo.DailySentimentCounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("buckets", len(counts)))
	return counts, nil
}

// Summary returns the corpus-wide sentiment distribution together with the
// total row count and the most recent insert time. Undated reviews count
// here even though the time series excludes them. An empty corpus yields a
// zeroed report, not an error.
func (s *DashboardService) Summary(ctx context.Context) (domain.SummaryReport, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Summary")
	defer span.End()

	happy, notHappy, err := repo.SentimentDistribution(ctx, s.DB)
	if err != nil {
		return domain.SummaryReport{}, err
	}
	total, latest, err := repo.ReviewStats(ctx, s.DB)
	if err != nil {
		return domain.SummaryReport{}, err
	}
	span.SetAttributes(attribute.Int64("corpus.total", total))
	return domain.SummaryReport{
		Total:      total,
		Happy:      happy,
		NotHappy:   notHappy,
		LastInsert: latest,
	}, nil
}

// TopWords returns the n most frequent lemmas across all reviews carrying
// the given label, most frequent first. The corpus is tokenized with the
// same normalizer that feeds prediction and aspect matching, so stop words
// are gone and plural forms collapse. Ties break alphabetically to keep the
// ordering stable. A label with no reviews yields an empty slice.
func (s *DashboardService) TopWords(ctx context.Context, label domain.Label, n int) ([]domain.WordCount, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "TopWords",
		trace.WithAttributes(attribute.String("words.label", label.String())),
	)
	defer span.End()

	if n <= 0 {
		n = DefaultTopWords
	}

	rows, err := repo.ListClassified(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, r := range rows {
		if r.PredictedLabel != label {
			continue
		}
		for _, tok := range s.Norm.Tokens(r.ReviewText) {
			counts[tok]++
		}
	}

	out := make([]domain.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	span.SetAttributes(attribute.Int("words.returned", len(out)))
	return out, nil
}

// Aspect scans the corpus for reviews mentioning the given token and returns
// the mention counts plus the performance score. The token is trimmed,
// lowercased, and lemmatized before matching, and matching is whole-word
// over each review's normalized tokens.
//
// A token that matches nothing returns ErrNoData; the caller must render
// "no data found", never divide by the zero total.
func (s *DashboardService) Aspect(ctx context.Context, token string) (domain.AspectReport, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Aspect",
		trace.WithAttributes(attribute.String("aspect.token", token)),
	)
	defer span.End()

	needle := s.canonicalToken(token)
	if needle == "" {
		return domain.AspectReport{}, ErrEmptyAspect
	}

	// Single full-corpus query; an inverted index can replace this without
	// touching the contract.
	rows, err := repo.ListClassified(ctx, s.DB)
	if err != nil {
		return domain.AspectReport{}, err
	}

	report := domain.AspectReport{Token: needle}
	for _, r := range rows {
		if !s.mentions(r.ReviewText, needle) {
			continue
		}
		report.Total++
		if r.PredictedLabel == domain.LabelHappy {
			report.Happy++
		} else {
			report.NotHappy++
		}
	}

	if report.Total == 0 {
		return domain.AspectReport{}, ErrNoData
	}
	report.PerformanceScore = 100 * float64(report.Happy) / float64(report.Total)
	return report, nil
}

// canonicalToken reduces a user-supplied aspect word to the lemma the corpus
// tokens are stored under. Stop words and non-letter input reduce to "".
func (s *DashboardService) canonicalToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	toks := s.Norm.Tokens(token)
	if len(toks) == 0 {
		return ""
	}
	// Multi-word input: only the first word is the aspect.
	return toks[0]
}

// mentions reports whether the review's normalized text contains the lemma
// as a whole word.
func (s *DashboardService) mentions(text, needle string) bool {
	for _, tok := range s.Norm.Tokens(text) {
		if tok == needle {
			return true
		}
	}
	return false
}
