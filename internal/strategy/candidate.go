package strategy

import (
	"fmt"

	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/slicer"
)

// minReferenceTokens is the floor spec.md §4.G gives for "minimum tokens of
// any reference" (used by the selector's stop condition), and also the
// minimum token cost this package assigns to a reference alternate.
const minReferenceTokens = 20

// referenceAlternate builds the reference-form alternate every candidate's
// ladder must end with (spec.md §3's invariant).
func referenceAlternate(path, reason string, est Estimator) slicer.AlternateForm {
	payload := fmt.Sprintf("%s (%s)", path, reason)
	tokens := est.Count(payload)
	if tokens < minReferenceTokens {
		tokens = minReferenceTokens
	}
	return slicer.AlternateForm{
		Representation: slicer.RepresentationReference,
		Tokens:         tokens,
		Payload:        payload,
	}
}

// Estimator is the minimal surface candidate.go needs from
// tokencount.Estimator, kept as a local interface so this file doesn't
// import tokencount just for its type name.
type Estimator interface {
	Count(text string) int
}

// FullCandidate builds a candidate whose chosen representation is `full`,
// with alternates full -> codemap (if outline is non-nil) -> reference.
func FullCandidate(strategyName, path, content, reason, source string, score float64, est Estimator, outline *codemap.Outline) *slicer.SliceCandidate {
	alternates := []slicer.AlternateForm{
		{Representation: slicer.RepresentationFull, Tokens: est.Count(content), Payload: content},
	}
	if outline != nil {
		rendered := codemap.FormatCodemapCompact(outline)
		alternates = append(alternates, slicer.AlternateForm{
			Representation: slicer.RepresentationCodemap,
			Tokens:         est.Count(rendered),
			Payload:        rendered,
		})
	}
	alternates = append(alternates, referenceAlternate(path, reason, est))

	return &slicer.SliceCandidate{
		ID:             strategyName + ":" + path,
		Path:           path,
		Strategy:       strategyName,
		Representation: alternates[0].Representation,
		Score:          score,
		Tokens:         alternates[0].Tokens,
		Reason:         reason,
		Source:         source,
		Content:        content,
		Alternates:     alternates,
	}
}

// SnippetCandidate builds a candidate whose chosen representation is
// `snippet`, with alternates snippet -> reference.
func SnippetCandidate(strategyName, path, snippet, reason, source string, score float64, est Estimator) *slicer.SliceCandidate {
	alternates := []slicer.AlternateForm{
		{Representation: slicer.RepresentationSnippet, Tokens: est.Count(snippet), Payload: snippet},
		referenceAlternate(path, reason, est),
	}
	return &slicer.SliceCandidate{
		ID:             strategyName + ":" + path,
		Path:           path,
		Strategy:       strategyName,
		Representation: alternates[0].Representation,
		Score:          score,
		Tokens:         alternates[0].Tokens,
		Reason:         reason,
		Source:         source,
		Content:        snippet,
		Alternates:     alternates,
	}
}

// CodemapCandidate builds a candidate whose chosen representation is
// `codemap`, with alternates codemap -> reference.
func CodemapCandidate(strategyName, path string, outline *codemap.Outline, reason, source string, score float64, est Estimator) *slicer.SliceCandidate {
	rendered := codemap.FormatCodemapCompact(outline)
	alternates := []slicer.AlternateForm{
		{Representation: slicer.RepresentationCodemap, Tokens: est.Count(rendered), Payload: rendered},
		referenceAlternate(path, reason, est),
	}
	return &slicer.SliceCandidate{
		ID:             strategyName + ":" + path,
		Path:           path,
		Strategy:       strategyName,
		Representation: alternates[0].Representation,
		Score:          score,
		Tokens:         alternates[0].Tokens,
		Reason:         reason,
		Source:         source,
		Codemap:        rendered,
		Alternates:     alternates,
	}
}
