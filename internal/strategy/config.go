package strategy

import (
	"context"
	"sort"
	"strings"

	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// configSnippetLines is spec.md §4.D's "first 200 lines" fallback for a
// config file that exceeds the intensity-scaled token cap.
const configSnippetLines = 200

// Config implements spec.md §4.D's config strategy: emit a candidate for
// every CONFIG_FILES entry present in the repository.
type Config struct{}

func (Config) Name() string           { return "config" }
func (Config) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["config"] }
func (Config) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["config"]
	return cap, ok
}
func (Config) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (c Config) Execute(ctx context.Context, sctx *Context) (Output, error) {
	paths, err := sctx.Backend.ListFiles(ctx, sctx.RepoRoot)
	if err != nil {
		return Output{Warnings: []slicer.Warning{{Kind: "strategy_failure", Message: "config: " + err.Error()}}}, nil
	}

	present := make(map[string]string) // config filename -> repo-relative path
	for _, p := range paths {
		base := basename(p)
		for _, cf := range scoring.CONFIG_FILES {
			if base == cf {
				if _, exists := present[cf]; !exists {
					present[cf] = p
				}
			}
		}
	}

	var names []string
	for cf := range present {
		names = append(names, cf)
	}
	sort.Strings(names)

	tokenCap := scoring.ConfigTokenCap.For(string(sctx.IntensityFor("config")))

	var candidates []*slicer.SliceCandidate
	for _, cf := range names {
		p := present[cf]
		if !pathmatch.IsPathIncluded(p, sctx.Request.Include, sctx.Request.Exclude) {
			continue
		}
		content, err := sctx.Backend.ReadFile(ctx, p)
		if err != nil {
			continue
		}

		score := scoring.ScoreCandidate("config", 1, sctx.Estimator.Count(content), sctx.BudgetTokens)

		if sctx.Estimator.Count(content) <= tokenCap {
			candidates = append(candidates, FullCandidate("config", p, content, "configuration file", "config scan", score, sctx.Estimator, nil))
			continue
		}

		snippet := firstNLines(content, configSnippetLines)
		candidates = append(candidates, SnippetCandidate("config", p, snippet, "configuration file (truncated)", "config scan", score, sctx.Estimator))
	}

	return Output{Candidates: candidates}, nil
}

func basename(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

func firstNLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= n {
		return content
	}
	return strings.Join(lines[:n], "\n")
}
