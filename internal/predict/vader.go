package predict

import (
	"context"
	"fmt"

	"github.com/jonreiter/govader"

	"github.com/stayview/go-review-backend/internal/domain"
)

// Vader is a lexicon-based backend for deployments that have no trained
// artifacts and no remote endpoint. It folds VADER's continuous compound
// score into the binary Happy / Not Happy contract.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader constructs the analyzer. The lexicon ships with the library, so
// construction cannot fail.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Predict maps the compound polarity in [-1, 1] onto a label and confidence:
// non-negative compound means Happy, and confidence grows linearly with the
// magnitude, from 0.5 for a neutral text up to 1 for a maximally polar one.
func (v *Vader) Predict(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	compound := v.analyzer.PolarityScores(text).Compound

	label := domain.LabelHappy
	if compound < 0 {
		label = domain.LabelNotHappy
	}
	mag := compound
	if mag < 0 {
		mag = -mag
	}
	conf := 0.5 + mag/2
	if conf > 1 {
		conf = 1
	}
	return Result{Label: label, Confidence: conf}, nil
}
