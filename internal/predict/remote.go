package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stayview/go-review-backend/internal/domain"
)

// DefaultRemoteTimeout bounds a remote prediction request when no timeout is
// configured. Interactive callers wait for at most one attempt.
const DefaultRemoteTimeout = 30 * time.Second

// maxRemoteBody caps how much of a response body is read, keeping a
// misbehaving endpoint from exhausting memory.
const maxRemoteBody = 1 << 20

// Remote delegates inference to an HTTP prediction endpoint. Exactly one
// attempt is made per call, with no retries, so interactive latency stays
// bounded; every failure mode collapses into ErrUnavailable.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote builds a remote predictor for the given endpoint URL.
func NewRemote(url string, timeout time.Duration) (*Remote, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("remote predictor: endpoint URL is empty")
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Remote{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// remoteRequest is the JSON body sent to the prediction endpoint.
type remoteRequest struct {
	Text string `json:"text"`
}

// remoteResponse is the JSON shape the endpoint must return. Probabilities
// is [p(not happy), p(happy)] and must have exactly two entries.
type remoteResponse struct {
	PredictedLabel *int      `json:"predicted_label"`
	Probabilities  []float64 `json:"probabilities"`
}

// Predict sends the review text to the endpoint and maps the response to a
// Result. Connection failures, timeouts, non-2xx statuses, malformed bodies,
// missing keys, and probability vectors of the wrong length all return
// ErrUnavailable so the caller handles one failure, not six.
func (r *Remote) Predict(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: endpoint returned status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed remoteResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.PredictedLabel == nil || len(parsed.Probabilities) != 2 {
		return Result{}, fmt.Errorf("%w: response missing predicted_label or probabilities", ErrUnavailable)
	}

	label := *parsed.PredictedLabel
	if label != 0 && label != 1 {
		return Result{}, fmt.Errorf("%w: predicted_label %d outside {0,1}", ErrUnavailable, label)
	}
	conf := parsed.Probabilities[label]
	if conf <= 0 || conf > 1 {
		return Result{}, fmt.Errorf("%w: probability %v outside (0,1]", ErrUnavailable, conf)
	}

	return Result{
		Label:      domain.Label(label),
		Confidence: conf,
	}, nil
}
