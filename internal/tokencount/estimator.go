// Package tokencount provides token-count estimation for slice candidate
// payloads. Two implementations are available: a cheap character-based
// estimator (the default, used for the majority of size-factor scoring) and
// a precise tiktoken-backed estimator for callers that need BPE-accurate
// counts.
package tokencount

import "math"

// Name identifies a registered Estimator.
type Name string

const (
	NameChar    Name = "char"
	NameCL100K  Name = "cl100k"
	NameO200K   Name = "o200k"
)

// Estimator counts the number of tokens a piece of text would consume.
type Estimator interface {
	Count(text string) int
	Name() string
}

// CharEstimator counts tokens as ceil(len(text)/4), the reference formula
// spec.md §4.A specifies for estimateTokens. This intentionally differs
// from a floor-division character estimator: rounding up means the
// estimator never under-reports a candidate's budget footprint, which
// matters because the selector treats Tokens as the authoritative cost.
type CharEstimator struct{}

// Count implements Estimator.
func (CharEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / 4.0))
}

// Name implements Estimator.
func (CharEstimator) Name() string { return string(NameChar) }
