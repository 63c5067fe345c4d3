// Package model loads the serialized inference artifacts, a tf-idf feature
// vectorizer and a logistic-regression classifier, and exposes the
// transform/predict contract the sentiment predictor composes. Artifacts are
// produced by an offline training pipeline; this package only applies them
// (transform only, never re-fit) and treats them as read-only once loaded.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Vectorizer maps normalized text to a fixed-dimension sparse tf-idf vector
// using the vocabulary fixed at training time. Terms outside the vocabulary
// are ignored; an empty input produces a zero vector, not an error.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Idf        []float64      `json:"idf"`
}

// Dim returns the dimensionality of produced feature vectors.
func (v *Vectorizer) Dim() int { return len(v.Idf) }

// Transform converts already-normalized text (space-separated lemmas) into a
// sparse, L2-normalized tf-idf vector keyed by feature index.
func (v *Vectorizer) Transform(normalized string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range strings.Fields(normalized) {
		idx, ok := v.Vocabulary[term]
		if !ok {
			continue
		}
		vec[idx] += v.Idf[idx]
	}
	if len(vec) == 0 {
		return vec
	}
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Classifier is a binary logistic-regression model over vectorizer features.
// Class 1 is Happy, class 0 is Not Happy.
type Classifier struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// decision computes the raw linear score w·x + b.
func (c *Classifier) decision(vec map[int]float64) float64 {
	score := c.Bias
	for idx, val := range vec {
		if idx >= 0 && idx < len(c.Weights) {
			score += c.Weights[idx] * val
		}
	}
	return score
}

// Predict returns the class label (0 or 1) for the feature vector.
func (c *Classifier) Predict(vec map[int]float64) int {
	if c.decision(vec) >= 0 {
		return 1
	}
	return 0
}

// PredictProba returns the class-probability vector [p0, p1]; the entries
// always sum to 1. A zero feature vector still yields a deterministic result
// driven by the bias term alone.
func (c *Classifier) PredictProba(vec map[int]float64) [2]float64 {
	p1 := 1.0 / (1.0 + math.Exp(-c.decision(vec)))
	return [2]float64{1 - p1, p1}
}

// Artifacts bundles the two loaded model files. Load once at process start
// and share; reloading per request is disallowed.
type Artifacts struct {
	Vectorizer *Vectorizer
	Classifier *Classifier
}

// Load reads and validates the vectorizer and classifier JSON files.
func Load(vectorizerPath, classifierPath string) (*Artifacts, error) {
	var vec Vectorizer
	if err := readJSON(vectorizerPath, &vec); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	var clf Classifier
	if err := readJSON(classifierPath, &clf); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	if len(vec.Idf) == 0 || len(vec.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer %s: empty vocabulary or idf", vectorizerPath)
	}
	for term, idx := range vec.Vocabulary {
		if idx < 0 || idx >= len(vec.Idf) {
			return nil, fmt.Errorf("vectorizer %s: term %q has index %d outside idf range %d", vectorizerPath, term, idx, len(vec.Idf))
		}
	}
	if len(clf.Weights) != len(vec.Idf) {
		return nil, fmt.Errorf("classifier %s: %d weights for %d features", classifierPath, len(clf.Weights), len(vec.Idf))
	}

	return &Artifacts{Vectorizer: &vec, Classifier: &clf}, nil
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
