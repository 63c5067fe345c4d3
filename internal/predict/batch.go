package predict

import "context"

// Outcome is the tagged per-row result of a batch prediction: either a
// Result or an error, never both meaningful at once. Keeping failures as
// errors here (instead of a sentinel label) means only the persistence
// boundary ever needs to think about excluded rows.
type Outcome struct {
	Result Result
	Err    error
}

// Failed reports whether this row's inference failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Batch applies the single-review contract independently to every text,
// sequentially, preserving input order: outcome i always corresponds to
// texts[i]. One row's failure never aborts the batch; it is recorded in that
// row's Outcome and processing continues. Context cancellation stops the
// loop, marking the remaining rows as failed.
func Batch(ctx context.Context, p Predictor, texts []string) []Outcome {
	out := make([]Outcome, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(texts); j++ {
				out[j] = Outcome{Err: err}
			}
			break
		}
		res, err := p.Predict(ctx, text)
		out[i] = Outcome{Result: res, Err: err}
	}
	return out
}
