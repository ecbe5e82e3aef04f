package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicekit/slicekit/internal/selector"
	"github.com/slicekit/slicekit/internal/slicer"
)

func candidate(id, path, strategy string, score float64, tokens int, alternates ...slicer.AlternateForm) *slicer.SliceCandidate {
	return &slicer.SliceCandidate{
		ID:             id,
		Path:           path,
		Strategy:       strategy,
		Representation: slicer.RepresentationFull,
		Score:          score,
		Tokens:         tokens,
		Content:        "content",
		Alternates:     alternates,
	}
}

func TestSelectSortsByScoreThenTokensThenPath(t *testing.T) {
	plan := &slicer.SlicePlan{
		ID: "p1",
		Candidates: map[string]*slicer.SliceCandidate{
			"a": candidate("a", "b.go", "skeleton", 0.5, 100),
			"b": candidate("b", "a.go", "skeleton", 0.9, 100),
			"c": candidate("c", "c.go", "skeleton", 0.9, 50),
		},
		CandidateOrder: []string{"a", "b", "c"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 250, Count: 3}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 10000}

	result := selector.New().Select(plan, req)
	require.Len(t, result.Selected, 3)
	assert.Equal(t, "c.go", result.Selected[0].Path)
	assert.Equal(t, "a.go", result.Selected[1].Path)
	assert.Equal(t, "b.go", result.Selected[2].Path)
}

func TestSelectDowngradesWhenOverBudget(t *testing.T) {
	big := candidate("a", "src/main.ts", "skeleton", 0.9, 900,
		slicer.AlternateForm{Representation: slicer.RepresentationCodemap, Tokens: 200, Payload: "outline"},
		slicer.AlternateForm{Representation: slicer.RepresentationReference, Tokens: 20, Payload: ""},
	)
	plan := &slicer.SlicePlan{
		ID:             "p1",
		Candidates:     map[string]*slicer.SliceCandidate{"a": big},
		CandidateOrder: []string{"a"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 900, Count: 1}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 300}

	result := selector.New().Select(plan, req)
	require.Len(t, result.Selected, 1)
	assert.Equal(t, slicer.RepresentationCodemap, result.Selected[0].Representation)
	assert.Equal(t, 200, result.Selected[0].Tokens)
	assert.Equal(t, 200, result.TotalTokens)
}

func TestSelectSkipsWhenNoAlternateFits(t *testing.T) {
	c := candidate("a", "src/main.ts", "skeleton", 0.9, 900)
	plan := &slicer.SlicePlan{
		ID:             "p1",
		Candidates:     map[string]*slicer.SliceCandidate{"a": c},
		CandidateOrder: []string{"a"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 900, Count: 1}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 300}

	result := selector.New().Select(plan, req)
	assert.Empty(t, result.Selected)
}

func TestSelectEmitsNearBudgetWarning(t *testing.T) {
	c := candidate("a", "src/main.ts", "skeleton", 0.9, 950)
	plan := &slicer.SlicePlan{
		ID:             "p1",
		Candidates:     map[string]*slicer.SliceCandidate{"a": c},
		CandidateOrder: []string{"a"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 950, Count: 1}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 1000}

	result := selector.New().Select(plan, req)
	require.Len(t, result.Selected, 1)

	found := false
	for _, w := range result.Warnings {
		if w.Kind == "near_budget" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSelectNoWarningWellUnderBudget(t *testing.T) {
	c := candidate("a", "src/main.ts", "skeleton", 0.9, 800)
	plan := &slicer.SlicePlan{
		ID:             "p1",
		Candidates:     map[string]*slicer.SliceCandidate{"a": c},
		CandidateOrder: []string{"a"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 800, Count: 1}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 1000}

	result := selector.New().Select(plan, req)
	for _, w := range result.Warnings {
		assert.NotEqual(t, "near_budget", w.Kind)
	}
}

func TestSelectDropsSidecarsInReverseOrderWhenOverBudget(t *testing.T) {
	plan := &slicer.SlicePlan{
		ID:         "p1",
		Candidates: map[string]*slicer.SliceCandidate{},
		Sidecars: map[string]slicer.Sidecar{
			"forest": {Name: "forest", Tokens: 900},
			"other":  {Name: "other", Tokens: 50},
		},
		SidecarOrder:   []string{"forest", "other"},
		StrategyTotals: map[string]slicer.StrategyTotal{},
	}
	req := &slicer.SliceRequest{BudgetTokens: 920}

	result := selector.New().Select(plan, req)
	require.Len(t, result.Sidecars, 1)
	assert.Equal(t, "forest", result.Sidecars[0].Name)

	found := false
	for _, w := range result.Warnings {
		if w.Kind == "budget_exceeded" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSelectRespectsMaxResults(t *testing.T) {
	plan := &slicer.SlicePlan{
		ID: "p1",
		Candidates: map[string]*slicer.SliceCandidate{
			"a": candidate("a", "a.go", "skeleton", 0.9, 10),
			"b": candidate("b", "b.go", "skeleton", 0.8, 10),
			"c": candidate("c", "c.go", "skeleton", 0.7, 10),
		},
		CandidateOrder: []string{"a", "b", "c"},
		StrategyTotals: map[string]slicer.StrategyTotal{"skeleton": {Tokens: 30, Count: 3}},
	}
	req := &slicer.SliceRequest{BudgetTokens: 10000, MaxResults: 2}

	result := selector.New().Select(plan, req)
	assert.Len(t, result.Selected, 2)
}
