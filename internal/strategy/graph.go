package strategy

import (
	"context"
	"path"
	"sort"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/importgraph"
	"github.com/slicekit/slicekit/internal/keywordx"
	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// codeFileCeiling is spec.md §4.D's ">500" threshold above which graph
// analysis restricts itself to seed directories and their parents instead
// of the whole repository.
const codeFileCeiling = 500

// graphDepthPenalty is the 0.08 per-depth-level score penalty spec.md
// §4.D's graph scoring formula applies.
const graphDepthPenalty = 0.08

// graphMinScore is the 0.05 floor spec.md §4.D's graph scoring formula
// applies.
const graphMinScore = 0.05

// Graph implements spec.md §4.D's graph strategy.
type Graph struct{}

func (Graph) Name() string           { return "graph" }
func (Graph) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["graph"] }
func (Graph) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["graph"]
	return cap, ok
}
func (Graph) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (g Graph) Execute(ctx context.Context, sctx *Context) (Output, error) {
	seeds := sctx.SeedList()
	if len(seeds) == 0 {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "graph: no seed files from earlier strategies"},
		}}, nil
	}
	sort.Strings(seeds)

	allPaths, err := sctx.Backend.ListFiles(ctx, sctx.RepoRoot)
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "graph: " + err.Error()}}}, nil
	}

	var codeFiles []string
	for _, p := range allPaths {
		if keywordx.IsCodePath(p) {
			codeFiles = append(codeFiles, p)
		}
	}

	analysisScope := codeFiles
	var scopeDirs []string
	if len(codeFiles) > codeFileCeiling {
		scopeDirs = seedScopeDirs(seeds)
		analysisScope = nil
		for _, p := range codeFiles {
			if inAnyScope(p, scopeDirs) {
				analysisScope = append(analysisScope, p)
			}
		}
	}

	structureOpts := backend.StructureOptions{}
	if len(scopeDirs) > 0 {
		structureOpts.Scope = scopeDirs
	}
	structure, err := sctx.Backend.GetStructure(ctx, analysisScope, structureOpts)
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "graph: " + err.Error()}}}, nil
	}

	outlines := make([]*codemap.Outline, 0, len(structure.Codemaps))
	known := make(map[string]bool, len(structure.Codemaps))
	for i := range structure.Codemaps {
		e := structure.Codemaps[i]
		o := &codemap.Outline{
			Path: e.Path, Language: e.Language, Classes: e.Classes,
			Functions: e.Functions, Types: e.Types, Imports: e.Imports,
		}
		outlines = append(outlines, o)
		known[e.Path] = true
	}

	graph := importgraph.Build(outlines, known)
	maxDepth := scoring.GraphDepth.For(string(sctx.IntensityFor("graph")))
	depths := importgraph.BFSWalk(graph, seeds, maxDepth)

	seedSet := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	outlineByPath := make(map[string]*codemap.Outline, len(outlines))
	for _, o := range outlines {
		outlineByPath[o.Path] = o
	}

	var discovered []string
	for p := range depths {
		if !seedSet[p] && pathmatch.IsPathIncluded(p, sctx.Request.Include, sctx.Request.Exclude) {
			discovered = append(discovered, p)
		}
	}
	sort.Strings(discovered)

	limit := scoring.MaxItemsGraph.For(string(sctx.IntensityFor("graph")))
	if len(discovered) > limit {
		discovered = discovered[:limit]
	}

	weight := scoring.STRATEGY_WEIGHTS["graph"]
	var candidates []*slicer.SliceCandidate
	for _, p := range discovered {
		outline, ok := outlineByPath[p]
		if !ok {
			continue
		}
		depth := depths[p]
		score := weight - graphDepthPenalty*float64(depth)
		if score < graphMinScore {
			score = graphMinScore
		}
		candidates = append(candidates, CodemapCandidate(
			"graph", p, outline,
			"import graph depth "+itoaDepth(depth), "import graph", score, sctx.Estimator,
		))
	}

	return Output{Candidates: candidates}, nil
}

func seedScopeDirs(seeds []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range seeds {
		dir := path.Dir(s)
		for dir != "." && dir != "/" {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
			dir = path.Dir(dir)
		}
	}
	return out
}

func inAnyScope(p string, dirs []string) bool {
	for _, d := range dirs {
		if p == d || (len(p) > len(d) && p[:len(d)] == d && p[len(d)] == '/') {
			return true
		}
	}
	return false
}

func itoaDepth(d int) string {
	if d < 10 {
		return string(rune('0' + d))
	}
	// Depths beyond single digit never occur given the (1,2,3) intensity
	// table, but fall back rather than mis-render.
	digits := []rune{}
	for d > 0 {
		digits = append([]rune{rune('0' + d%10)}, digits...)
		d /= 10
	}
	return string(digits)
}
