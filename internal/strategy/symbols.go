package strategy

import (
	"context"
	"sort"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// Symbols implements spec.md §4.D's symbols strategy: batch-extract
// codemaps for files already discovered by earlier strategies. It never
// adds new paths to matchedFiles.
type Symbols struct{}

func (Symbols) Name() string           { return "symbols" }
func (Symbols) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["symbols"] }
func (Symbols) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["symbols"]
	return cap, ok
}
func (Symbols) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (s Symbols) Execute(ctx context.Context, sctx *Context) (Output, error) {
	seeds := sctx.SeedList()
	if len(seeds) == 0 {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "symbols: no seed files from earlier strategies"},
		}}, nil
	}
	sort.Strings(seeds)

	limit := scoring.MaxItemsSymbols.For(string(sctx.IntensityFor("symbols")))
	if len(seeds) > limit {
		seeds = seeds[:limit]
	}

	structure, err := sctx.Backend.GetStructure(ctx, seeds, backend.StructureOptions{})
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "symbols: " + err.Error()}}}, nil
	}

	var candidates []*slicer.SliceCandidate
	for i := range structure.Codemaps {
		e := structure.Codemaps[i]
		outline := &codemap.Outline{
			Path: e.Path, Language: e.Language, Classes: e.Classes,
			Functions: e.Functions, Types: e.Types, Imports: e.Imports,
		}
		score := scoring.ScoreCandidate("symbols", 1, sctx.Estimator.Count(codemap.FormatCodemapCompact(outline)), sctx.BudgetTokens)
		candidates = append(candidates, CodemapCandidate("symbols", e.Path, outline, "seeded symbol extraction", "symbol extraction", score, sctx.Estimator))
	}

	return Output{Candidates: candidates}, nil
}
