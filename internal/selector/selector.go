// Package selector implements spec.md §4.G: the budget-constrained
// knapsack-with-downgrade pass that turns a SlicePlan into a SliceResult.
package selector

import (
	"log/slog"
	"math"
	"sort"

	"github.com/slicekit/slicekit/internal/config"
	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// minAlternateTokens is spec.md §4.G's floor on the remaining budget: below
// this, no alternate (not even a bare reference) can fit, so selection
// stops.
const minAlternateTokens = 20

// Selector turns a SlicePlan into a SliceResult under a hard token budget.
// Grounded on internal/tokenizer/budget.go's BudgetEnforcer: reserve
// mandatory content first, then greedily admit the rest under a cap,
// generalized here to per-strategy caps and a representation-downgrade
// ladder instead of a single reject/admit decision.
type Selector struct {
	logger *slog.Logger
}

// New constructs a Selector.
func New() *Selector {
	return &Selector{logger: config.NewLogger("selector")}
}

// Select runs the algorithm in spec.md §4.G against plan, honoring
// req.BudgetTokens, req.MaxResults, and req.EffectiveWarningThreshold.
func (s *Selector) Select(plan *slicer.SlicePlan, req *slicer.SliceRequest) *slicer.SliceResult {
	result := &slicer.SliceResult{
		PlanID:   plan.ID,
		Budget:   req.BudgetTokens,
		Warnings: append([]slicer.Warning(nil), plan.Warnings...),
	}

	reserved := plan.TreeTokens
	sidecars := plan.OrderedSidecars()
	for _, sc := range sidecars {
		reserved += sc.Tokens
	}

	if reserved > req.BudgetTokens {
		result.Warnings = append(result.Warnings, slicer.Warning{
			Kind: "budget_exceeded", Message: "tree and sidecars alone exceed the budget",
		})
		// Drop sidecars in reverse insertion order until the tree (mandatory)
		// plus whatever sidecars remain fits.
		for i := len(sidecars) - 1; i >= 0 && reserved > req.BudgetTokens; i-- {
			reserved -= sidecars[i].Tokens
			sidecars = sidecars[:i]
		}
	}
	result.Tree = plan.Tree
	result.Sidecars = sidecars

	remaining := req.BudgetTokens - reserved
	if remaining < 0 {
		remaining = 0
	}

	strategyCaps := make(map[string]int)
	for _, name := range strategyNames(plan) {
		if cap, ok := scoring.StrategyCap(name, req.BudgetTokens); ok {
			strategyCaps[name] = cap
		} else {
			strategyCaps[name] = remaining
		}
	}

	candidates := plan.OrderedCandidates()
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Tokens != b.Tokens {
			return a.Tokens < b.Tokens
		}
		return a.Path < b.Path
	})

	var selected []*slicer.SliceCandidate
	selectedTokens := 0

	for _, c := range candidates {
		if req.MaxResults > 0 && len(selected) >= req.MaxResults {
			break
		}
		if remaining < minAlternateTokens {
			break
		}

		cap := strategyCaps[c.Strategy]
		chosen := fitCandidate(c, remaining, cap)
		if chosen == nil {
			continue
		}

		selected = append(selected, chosen)
		selectedTokens += chosen.Tokens
		remaining -= chosen.Tokens
		strategyCaps[c.Strategy] = cap - chosen.Tokens
	}

	result.Selected = selected
	result.TotalTokens = reserved + selectedTokens

	used := float64(req.BudgetTokens-remaining) / float64(req.BudgetTokens)
	if !math.IsNaN(used) && used >= req.EffectiveWarningThreshold() {
		result.Warnings = append(result.Warnings, slicer.Warning{
			Kind: "near_budget", Message: "selection is near the requested budget",
		})
	}

	s.logger.Debug("selection complete",
		"selected", len(selected),
		"total_tokens", result.TotalTokens,
		"budget", req.BudgetTokens,
	)

	return result
}

// fitCandidate returns c (possibly downgraded to an alternate) if it fits
// within both remaining and cap, or nil if nothing fits.
func fitCandidate(c *slicer.SliceCandidate, remaining, cap int) *slicer.SliceCandidate {
	if c.Tokens <= remaining && c.Tokens <= cap {
		return c
	}
	for _, alt := range c.Alternates {
		if alt.Tokens <= remaining && alt.Tokens <= cap {
			downgraded := *c
			downgraded.Representation = alt.Representation
			downgraded.Tokens = alt.Tokens
			switch alt.Representation {
			case slicer.RepresentationCodemap:
				downgraded.Codemap = alt.Payload
				downgraded.Content = ""
			case slicer.RepresentationReference:
				downgraded.Content = ""
				downgraded.Codemap = ""
			default:
				downgraded.Content = alt.Payload
				downgraded.Codemap = ""
			}
			return &downgraded
		}
	}
	return nil
}

func strategyNames(plan *slicer.SlicePlan) []string {
	seen := make(map[string]bool)
	var names []string
	for name := range plan.StrategyTotals {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
