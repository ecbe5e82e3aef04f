package strategy

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// fullContentTokenCeiling is spec.md §4.D's "if full content <= 2000
// tokens, prepends a full alternate" threshold for the skeleton strategy.
const fullContentTokenCeiling = 2000

// Skeleton implements spec.md §4.D's skeleton strategy: entry points
// matching SKELETON_PATTERNS under a SKELETON_DIRS fragment.
type Skeleton struct{}

func (Skeleton) Name() string          { return "skeleton" }
func (Skeleton) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["skeleton"] }
func (Skeleton) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["skeleton"]
	return cap, ok
}
func (Skeleton) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (s Skeleton) Execute(ctx context.Context, sctx *Context) (Output, error) {
	paths, err := sctx.Backend.ListFiles(ctx, sctx.RepoRoot)
	if err != nil {
		return Output{}, err
	}

	var selected []string
	for _, p := range paths {
		if !pathmatch.IsPathIncluded(p, sctx.Request.Include, sctx.Request.Exclude) {
			continue
		}
		if !matchesSkeletonPattern(p) || !containsSkeletonDir(p) {
			continue
		}
		selected = append(selected, p)
	}
	sort.Strings(selected)

	maxItems := scoring.MaxItemsSkeleton.For(string(sctx.IntensityFor("skeleton")))
	if len(selected) > maxItems {
		selected = selected[:maxItems]
	}

	structure, err := sctx.Backend.GetStructure(ctx, selected, backend.StructureOptions{})
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "skeleton: " + err.Error()}}}, nil
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
	for _, p := range selected {
		content, _ := sctx.Backend.ReadFile(ctx, p)
		outline := outlines[p]
		score := scoring.ScoreCandidate("skeleton", 1, sctx.Estimator.Count(content), sctx.BudgetTokens)

		var cand *slicer.SliceCandidate
		if sctx.Estimator.Count(content) <= fullContentTokenCeiling {
			cand = FullCandidate("skeleton", p, content, "entry point", "skeleton scan", score, sctx.Estimator, outline)
		} else if outline != nil {
			cand = CodemapCandidate("skeleton", p, outline, "entry point", "skeleton scan", score, sctx.Estimator)
		} else {
			continue
		}
		candidates = append(candidates, cand)
	}

	sctx.AddSeeds(selected...)

	return Output{Candidates: candidates}, nil
}

func matchesSkeletonPattern(p string) bool {
	base := path.Base(p)
	for _, pattern := range scoring.SKELETON_PATTERNS {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func containsSkeletonDir(p string) bool {
	segments := strings.Split(pathmatch.NormalisePath(p), "/")
	for _, seg := range segments {
		for _, dir := range scoring.SKELETON_DIRS {
			if seg == dir {
				return true
			}
		}
	}
	return false
}
