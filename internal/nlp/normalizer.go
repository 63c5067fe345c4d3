// Package nlp provides the deterministic text normalization pipeline that
// feeds the sentiment predictor and the aspect matcher. It is intentionally
// small and free of transport or storage concerns:
//
//   - No logging in the library (callers decide how/what to log)
//   - Pure functions of their input plus immutable, load-once state
//   - Safe for concurrent use after construction
//
// Normalization follows the pipeline the sentiment model was trained with:
// strip non-letters, lowercase, tokenize, drop stop words and one-character
// tokens, lemmatize, join with single spaces. Applying Normalize twice yields
// the same output as applying it once.
package nlp

import (
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer cleans raw review text into the lemmatized, stop-word-free form
// the feature vectorizer expects. Construct once with New and reuse; the
// embedded lemmatizer dictionary is read-only shared state.
type Normalizer struct {
	lemmas *golem.Lemmatizer
	lower  cases.Caser
}

// New builds a Normalizer backed by the English lemmatizer dictionary.
func New() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &Normalizer{
		lemmas: lem,
		lower:  cases.Lower(language.English),
	}, nil
}

// Normalize returns the canonical form of raw: ASCII letters only, lowercase,
// stop words and one-character tokens removed, every surviving token reduced
// to its dictionary base form, joined by single spaces.
//
// Empty or all-stop-word input yields "", which downstream vectorization
// handles as a zero feature vector rather than an error.
func (n *Normalizer) Normalize(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// Tokens returns the surviving lemmas of raw in input order. The aspect
// matcher uses this directly for whole-word matching so that "bedroom" never
// counts as a mention of "bed".
func (n *Normalizer) Tokens(raw string) []string {
	if raw == "" {
		return nil
	}
	cleaned := stripNonLetters(raw)
	cleaned = n.lower.String(cleaned)

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, n.lemmas.Lemma(tok))
	}
	return out
}

// stripNonLetters removes every byte outside the ASCII letter and whitespace
// ranges. Digits and punctuation carry no lexical sentiment signal for this
// model, so dropping them is intentional.
func stripNonLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c == ' ', c == '\t', c == '\n', c == '\r', c == '\f', c == '\v':
			b.WriteByte(c)
		}
	}
	return b.String()
}
