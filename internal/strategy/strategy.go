// Package strategy implements the eight named strategy plugins spec.md
// §4.D describes, plus the shared Context and Strategy interface each one
// satisfies.
package strategy

import (
	"context"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/slicer"
	"github.com/slicekit/slicekit/internal/tokencount"
)

// Output is what a single strategy execution produces.
type Output struct {
	Candidates []*slicer.SliceCandidate
	Warnings   []slicer.Warning
	Sidecar    *slicer.Sidecar
}

// Context is the shared execution environment every strategy receives. It
// carries the request, a backend handle, extracted keywords, and the
// mutable matchedFiles seed set spec.md §4.D/§9 describe as the only shared
// mutable state across strategies. Strategies run sequentially, so no
// locking is required, but a strategy that internally fans out must ensure
// its own writes to MatchedFiles are visible before it returns (join all
// goroutines before returning, as every strategy in this package does).
type Context struct {
	Request      *slicer.SliceRequest
	Backend      backend.RepoBackend
	RepoRoot     string
	Keywords     []string
	BudgetTokens int
	Estimator    tokencount.Estimator

	// MatchedFiles is the cross-strategy seed set, owned by the planner and
	// lent to each strategy in turn.
	MatchedFiles map[string]bool
}

// IntensityFor resolves the request's effective intensity for name.
func (c *Context) IntensityFor(name string) slicer.Intensity {
	return c.Request.IntensityFor(name)
}

// Cap resolves the request's hard per-strategy cap for name, if any.
func (c *Context) Cap(name string) (slicer.StrategyCap, bool) {
	if c.Request.StrategyCaps == nil {
		return slicer.StrategyCap{}, false
	}
	cap, ok := c.Request.StrategyCaps[name]
	return cap, ok
}

// AddSeeds records paths in the shared matchedFiles set.
func (c *Context) AddSeeds(paths ...string) {
	for _, p := range paths {
		c.MatchedFiles[p] = true
	}
}

// SeedList returns the current matchedFiles contents. Callers that need a
// stable order should sort the result themselves; insertion order is not
// tracked since set membership (not order) is what later strategies need.
func (c *Context) SeedList() []string {
	out := make([]string, 0, len(c.MatchedFiles))
	for p := range c.MatchedFiles {
		out = append(out, p)
	}
	return out
}

// Strategy is the capability set spec.md §4.D assigns to a plugin:
// name/weight/availability/execution. Implementations are value-like and
// stateless apart from their own config, per spec.md §9's "dynamic plugin
// dispatch" note — a registry of factory closures is preferred over
// inheritance.
type Strategy interface {
	Name() string
	DefaultWeight() float64
	// DefaultBudgetCap returns the strategy's fractional budget cap and
	// whether one is defined at all.
	DefaultBudgetCap() (float64, bool)
	IsAvailable(ctx context.Context, sctx *Context) bool
	Execute(ctx context.Context, sctx *Context) (Output, error)
}

// Order is the fixed strategy execution order spec.md §4.E mandates, which
// allows seed propagation: skeleton and keyword discover seeds that ast,
// symbols, and graph consume.
var Order = []string{
	"skeleton", "keyword", "ast", "symbols", "graph", "config", "diff", "forest",
}
