package predict

import (
	"context"
	"fmt"

	"github.com/stayview/go-review-backend/internal/domain"
	"github.com/stayview/go-review-backend/internal/model"
	"github.com/stayview/go-review-backend/internal/nlp"
)

// Local runs inference in-process by composing the text normalizer with the
// loaded vectorizer and classifier artifacts. The artifacts are loaded once
// here and treated as read-only for the life of the process.
type Local struct {
	norm *nlp.Normalizer
	art  *model.Artifacts
}

// NewLocal loads the artifacts at the given paths and builds the normalizer.
// It fails fast so a missing or malformed artifact aborts startup instead of
// surfacing on the first request.
func NewLocal(vectorizerPath, classifierPath string) (*Local, error) {
	art, err := model.Load(vectorizerPath, classifierPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	norm, err := nlp.New()
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}
	return &Local{norm: norm, art: art}, nil
}

// Predict normalizes, vectorizes (transform only), classifies, and reports
// the probability of whichever class was predicted. Input that normalizes to
// the empty string still yields a deterministic result: the zero feature
// vector falls through to the classifier's bias term.
func (l *Local) Predict(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	vec := l.art.Vectorizer.Transform(l.norm.Normalize(text))
	label := l.art.Classifier.Predict(vec)
	proba := l.art.Classifier.PredictProba(vec)
	return Result{
		Label:      domain.Label(label),
		Confidence: proba[label],
	}, nil
}
