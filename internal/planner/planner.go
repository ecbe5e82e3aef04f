// Package planner implements spec.md §4.F: sequential strategy execution
// that aggregates candidates, warnings, and sidecars into a SlicePlan.
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/config"
	"github.com/slicekit/slicekit/internal/keywordx"
	"github.com/slicekit/slicekit/internal/slicer"
	"github.com/slicekit/slicekit/internal/strategy"
	"github.com/slicekit/slicekit/internal/tokencount"
)

// Planner runs strategies in the fixed order and assembles a SlicePlan.
// Grounded on internal/pipeline/pipeline.go's Run(ctx, cfg) orchestration
// shape, generalized from a single pass to the sequential multi-strategy
// loop spec.md §4.F describes.
type Planner struct {
	logger    *slog.Logger
	estimator tokencount.Estimator
}

// New constructs a Planner using the default character-count estimator,
// per spec.md §4.A's reference formula.
func New() *Planner {
	return &Planner{
		logger:    config.NewLogger("planner"),
		estimator: tokencount.CharEstimator{},
	}
}

// WithEstimator overrides the token estimator (e.g. for a tiktoken-backed
// --stats pass) and returns the receiver for chaining.
func (p *Planner) WithEstimator(est tokencount.Estimator) *Planner {
	p.estimator = est
	return p
}

// Plan executes req against repo. Returns an InvalidRequest or
// BackendUnavailable *slicer.Error for fatal conditions; every other
// failure mode becomes a Warning on the returned plan.
func (p *Planner) Plan(ctx context.Context, req *slicer.SliceRequest, repo backend.RepoBackend) (*slicer.SlicePlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, slicer.NewError(slicer.BackendUnavailable, "no backend registered")
	}

	plan := &slicer.SlicePlan{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now(),
		Candidates:     make(map[string]*slicer.SliceCandidate),
		StrategyTotals: make(map[string]slicer.StrategyTotal),
		Sidecars:       make(map[string]slicer.Sidecar),
	}

	keywords := keywordx.Extract(req.Task)
	sctx := &strategy.Context{
		Request:      req,
		Backend:      repo,
		RepoRoot:     req.RepoRoot,
		Keywords:     keywords,
		BudgetTokens: req.BudgetTokens,
		Estimator:    p.estimator,
		MatchedFiles: make(map[string]bool),
	}

	allowed := allowlist(req.Strategies)

	for _, name := range strategy.Order {
		if allowed != nil && !allowed[name] {
			continue
		}
		strat, ok := strategy.New(name)
		if !ok {
			continue
		}

		if !strat.IsAvailable(ctx, sctx) {
			// Forest's absence is expected (it requires an external
			// executable); spec.md §8 explicitly excludes it from the
			// unavailability warning other strategies would otherwise get.
			if name != "forest" {
				plan.Warnings = append(plan.Warnings, slicer.Warning{
					Kind: "strategy_unavailable", Message: name + ": unavailable",
				})
			}
			continue
		}

		p.logger.Debug("executing strategy", "strategy", name)
		out, err := strat.Execute(ctx, sctx)
		if err != nil {
			plan.Warnings = append(plan.Warnings, slicer.Warning{
				Kind: "strategy_failure", Message: name + ": " + err.Error(),
			})
			continue
		}

		plan.Warnings = append(plan.Warnings, out.Warnings...)

		total := plan.StrategyTotals[name]
		for _, c := range out.Candidates {
			if _, exists := plan.Candidates[c.ID]; exists {
				continue
			}
			plan.Candidates[c.ID] = c
			plan.CandidateOrder = append(plan.CandidateOrder, c.ID)
			total.Tokens += c.Tokens
			total.Count++
		}
		plan.StrategyTotals[name] = total

		if out.Sidecar != nil {
			if _, exists := plan.Sidecars[out.Sidecar.Name]; !exists {
				plan.Sidecars[out.Sidecar.Name] = *out.Sidecar
				plan.SidecarOrder = append(plan.SidecarOrder, out.Sidecar.Name)
			}
		}
	}

	if req.IncludeTree {
		tree, err := repo.GetTree(ctx, req.RepoRoot, backend.TreeOptions{})
		if err != nil {
			plan.Warnings = append(plan.Warnings, slicer.Warning{
				Kind: "strategy_failure", Message: "tree: " + err.Error(),
			})
		} else {
			plan.Tree = tree.Content
			plan.TreeTokens = tree.Tokens
		}
	}

	plan.TotalTokens = plan.TreeTokens
	for _, c := range plan.Candidates {
		plan.TotalTokens += c.Tokens
	}
	for _, s := range plan.Sidecars {
		plan.TotalTokens += s.Tokens
	}

	p.logger.Info("plan complete",
		"candidates", len(plan.Candidates),
		"warnings", len(plan.Warnings),
		"total_tokens", plan.TotalTokens,
	)

	return plan, nil
}

func allowlist(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
