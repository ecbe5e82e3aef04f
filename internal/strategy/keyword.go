package strategy

import (
	"context"
	"sort"
	"strconv"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/pathmatch"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// keywordContextLines is the ±3 line window the resolved Open Question
// (DESIGN.md) fixes for the keyword strategy's snippets.
const keywordContextLines = 3

// keywordTopN is "top-10" from spec.md §4.D: only the 10 highest-priority
// extracted keywords are ever searched.
const keywordTopN = 10

// Keyword implements spec.md §4.D's keyword strategy.
type Keyword struct{}

func (Keyword) Name() string           { return "keyword" }
func (Keyword) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["keyword"] }
func (Keyword) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["keyword"]
	return cap, ok
}
func (Keyword) IsAvailable(ctx context.Context, sctx *Context) bool { return true }

func (k Keyword) Execute(ctx context.Context, sctx *Context) (Output, error) {
	keywords := sctx.Keywords
	if len(keywords) == 0 {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "keyword: no keywords extracted from task"},
		}}, nil
	}
	if len(keywords) > keywordTopN {
		keywords = keywords[:keywordTopN]
	}

	hitCounts := make(map[string]int)
	snippets := make(map[string]string)
	var order []string

	for _, kw := range keywords {
		matches, err := sctx.Backend.Search(ctx, []string{kw}, backend.SearchOptions{ContextLines: keywordContextLines})
		if err != nil {
			continue
		}
		for _, m := range matches {
			if !pathmatch.IsPathIncluded(m.Path, sctx.Request.Include, sctx.Request.Exclude) {
				continue
			}
			if hitCounts[m.Path] == 0 {
				order = append(order, m.Path)
				snippets[m.Path] = m.Snippet
			}
			hitCounts[m.Path]++
		}
	}
	sort.Strings(order)

	var candidates []*slicer.SliceCandidate
	for _, p := range order {
		score := scoring.ScoreCandidate("keyword", hitCounts[p], sctx.Estimator.Count(snippets[p]), sctx.BudgetTokens)
		candidates = append(candidates, SnippetCandidate(
			"keyword", p, snippets[p],
			hitCountReason(hitCounts[p]), "keyword search", score, sctx.Estimator,
		))
	}

	sctx.AddSeeds(order...)

	return Output{Candidates: candidates}, nil
}

func hitCountReason(n int) string {
	if n == 1 {
		return "1 keyword hit"
	}
	return strconv.Itoa(n) + " keyword hits"
}
