package strategy

import (
	"context"
	"sort"

	"github.com/slicekit/slicekit/internal/gitutil"
	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// Diff implements spec.md §4.D's diff strategy: full candidates for paths
// reported by git diff (working tree + staged).
type Diff struct{}

func (Diff) Name() string           { return "diff" }
func (Diff) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["diff"] }
func (Diff) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["diff"]
	return cap, ok
}

// IsAvailable always returns true. Per spec.md §8's boundary behaviors, a
// missing git is a skip (with warning) rather than an
// unavailable-before-execution drop, so Execute emits the warning when git
// turns out to be unusable.
func (Diff) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (d Diff) Execute(ctx context.Context, sctx *Context) (Output, error) {
	paths := gitutil.DiffPaths(ctx, sctx.RepoRoot)
	if len(paths) == 0 {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "diff: no git changes (or git unavailable)"},
		}}, nil
	}

	var filtered []string
	for _, p := range paths {
		if pathmatch.IsPathIncluded(p, sctx.Request.Include, sctx.Request.Exclude) {
			filtered = append(filtered, p)
		}
	}
	sort.Strings(filtered)

	limit := scoring.MaxItemsDiff.For(string(sctx.IntensityFor("diff")))
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	var candidates []*slicer.SliceCandidate
	for _, p := range filtered {
		content, err := sctx.Backend.ReadFile(ctx, p)
		if err != nil {
			continue
		}
		score := scoring.ScoreCandidate("diff", 1, sctx.Estimator.Count(content), sctx.BudgetTokens)
		candidates = append(candidates, FullCandidate("diff", p, content, "git diff", "git diff", score, sctx.Estimator, nil))
	}

	return Output{Candidates: candidates}, nil
}
