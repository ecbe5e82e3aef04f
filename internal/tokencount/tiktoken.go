package tokencount

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// tiktokenEstimator is an Estimator backed by pkoukk/tiktoken-go. The BPE
// encoding is loaded once on construction; Count is safe for concurrent use
// because tiktoken-go's Encode does not mutate shared state.
type tiktokenEstimator struct {
	name string
	enc  *tiktoken.Tiktoken
}

func newTiktokenEstimator(encodingName string) (*tiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("initialising tiktoken encoding %q: %w", encodingName, err)
	}
	return &tiktokenEstimator{name: encodingName, enc: enc}, nil
}

// Count returns the exact BPE token count for text.
func (t *tiktokenEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Name implements Estimator.
func (t *tiktokenEstimator) Name() string { return t.name }

// ErrUnknownEstimator is returned by NewEstimator for an unrecognised name.
var ErrUnknownEstimator = fmt.Errorf("unknown estimator")

// NewEstimator returns an Estimator for name. An empty name selects
// CharEstimator, the default used throughout the slicer engine for
// scoreCandidate's size_factor and the selector's budget accounting. The
// tiktoken-backed encodings are available for callers who need BPE-precise
// counts (e.g. a final --stats report).
func NewEstimator(name Name) (Estimator, error) {
	switch name {
	case "", NameChar:
		return CharEstimator{}, nil
	case NameCL100K:
		return newTiktokenEstimator("cl100k_base")
	case NameO200K:
		return newTiktokenEstimator("o200k_base")
	default:
		return nil, fmt.Errorf("%w: %q (supported: char, cl100k, o200k)", ErrUnknownEstimator, name)
	}
}
