// Package predict implements the sentiment prediction capability consumed by
// the review services. The two deployment shapes, an in-process model and a
// remote HTTP prediction endpoint, are one polymorphic
// contract here: given text, return a label and the probability of that label.
// A lexicon-based analyzer is available as a third backend for deployments
// without trained artifacts.
//
// All backends are pure with respect to their inputs plus read-only state
// loaded at construction time, and are safe for concurrent use.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stayview/go-review-backend/internal/domain"
)

// ErrUnavailable is returned whenever a prediction cannot be produced:
// remote connection failure, timeout, malformed response, or missing
// artifacts. Callers treat it exactly like a classifier failure: surface it
// in single-review mode, mark-and-skip the row in batch mode.
var ErrUnavailable = errors.New("prediction unavailable")

// Result is the outcome of one successful inference.
//
// Confidence is always the probability mass assigned to the predicted class,
// never the positive-class probability unconditionally. It lies in (0, 1].
type Result struct {
	Label      domain.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// Predictor is the single-review inference contract.
//
// Implementations must be safe for concurrent use and must honor the context
// for cancellation. The returned error is ErrUnavailable (possibly wrapped)
// for every failure mode a caller cannot distinguish usefully.
type Predictor interface {
	Predict(ctx context.Context, text string) (Result, error)
}

// Supported backend names for Options.Backend.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendVader  = "vader"
)

// Options selects and parameterizes a predictor backend.
type Options struct {
	Backend        string        // local | remote | vader
	VectorizerPath string        // local: tf-idf vectorizer artifact
	ClassifierPath string        // local: classifier artifact
	URL            string        // remote: prediction endpoint
	Timeout        time.Duration // remote: per-request timeout
}

// New constructs the configured predictor backend, wrapped with Prometheus
// instrumentation. Artifact or configuration problems surface immediately so
// startup can abort rather than deferring the failure to the first request.
func New(opts Options) (Predictor, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	var (
		p   Predictor
		err error
	)
	switch backend {
	case BackendLocal, "":
		backend = BackendLocal
		p, err = NewLocal(opts.VectorizerPath, opts.ClassifierPath)
	case BackendRemote:
		p, err = NewRemote(opts.URL, opts.Timeout)
	case BackendVader:
		p = NewVader()
	default:
		return nil, fmt.Errorf("unknown predictor backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return instrumented{next: p, backend: backend}, nil
}

var (
	// predTotal counts successful predictions by backend and resulting label.
	predTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_predictions_total",
			Help: "Total number of successful sentiment predictions.",
		},
		[]string{"backend", "label"},
	)

	// predFailures counts failed predictions by backend.
	predFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_prediction_failures_total",
			Help: "Total number of failed sentiment predictions.",
		},
		[]string{"backend"},
	)

	// predLatency records inference duration by backend.
	predLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_prediction_duration_seconds",
			Help:    "Duration of sentiment predictions in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(predTotal, predFailures, predLatency)
}

// instrumented decorates a Predictor with Prometheus counters and latency
// observation. It adds no behavior beyond metrics.
type instrumented struct {
	next    Predictor
	backend string
}

func (i instrumented) Predict(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	res, err := i.next.Predict(ctx, text)
	predLatency.WithLabelValues(i.backend).Observe(time.Since(start).Seconds())
	if err != nil {
		predFailures.WithLabelValues(i.backend).Inc()
		return res, err
	}
	predTotal.WithLabelValues(i.backend, res.Label.String()).Inc()
	return res, nil
}
