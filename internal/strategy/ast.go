package strategy

import (
	"context"
	"sort"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// AST implements spec.md §4.D's ast strategy: re-query keyword matches with
// zero context lines, emit codemap candidates for the hit files.
type AST struct{}

func (AST) Name() string           { return "ast" }
func (AST) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["ast"] }
func (AST) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["ast"]
	return cap, ok
}
func (AST) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (a AST) Execute(ctx context.Context, sctx *Context) (Output, error) {
	if len(sctx.Keywords) == 0 {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "ast: no keywords extracted from task"},
		}}, nil
	}

	limit := scoring.MaxItemsAST.For(string(sctx.IntensityFor("ast")))

	matches, err := sctx.Backend.Search(ctx, sctx.Keywords, backend.SearchOptions{ContextLines: 0, MaxResults: 0})
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "ast: " + err.Error()}}}, nil
	}

	hitCounts := make(map[string]int)
	var order []string
	for _, m := range matches {
		if !pathmatch.IsPathIncluded(m.Path, sctx.Request.Include, sctx.Request.Exclude) {
			continue
		}
		if hitCounts[m.Path] == 0 {
			order = append(order, m.Path)
		}
		hitCounts[m.Path]++
	}
	sort.Strings(order)
	if len(order) > limit {
		order = order[:limit]
	}

	structure, err := sctx.Backend.GetStructure(ctx, order, backend.StructureOptions{})
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "ast: " + err.Error()}}}, nil
	}
	outlines := make(map[string]*codemap.Outline, len(structure.Codemaps))
	for i := range structure.Codemaps {
		e := structure.Codemaps[i]
		outlines[e.Path] = &codemap.Outline{
			Path: e.Path, Language: e.Language, Classes: e.Classes,
			Functions: e.Functions, Types: e.Types, Imports: e.Imports,
		}
	}

	var candidates []*slicer.SliceCandidate
	for _, p := range order {
		outline, ok := outlines[p]
		if !ok {
			continue
		}
		score := scoring.ScoreCandidate("ast", hitCounts[p], sctx.Estimator.Count(codemap.FormatCodemapCompact(outline)), sctx.BudgetTokens)
		candidates = append(candidates, CodemapCandidate("ast", p, outline, hitCountReason(hitCounts[p]), "ast query", score, sctx.Estimator))
	}

	return Output{Candidates: candidates}, nil
}
