// Package slicer defines the central data types shared across every stage of
// the slicer engine. These types serve as the data backbone: strategies,
// planning, selection, and packaging all operate on the same DTOs defined
// here.
//
// This package has no knowledge of how candidates are produced or packaged;
// it only models the request, the unit of work (SliceCandidate), and the
// two handoff points (SlicePlan -> selector -> SliceResult).
package slicer

import "time"

// Intensity controls the default per-strategy item/token limits. Strategies
// scale their own limits from this value unless a request overrides a
// specific strategy via StrategyIntensity.
type Intensity string

const (
	// IntensityLite produces the smallest candidate sets, favoring speed and
	// a tight budget footprint over exhaustiveness.
	IntensityLite Intensity = "lite"

	// IntensityStandard is the default: a balanced set of limits suitable
	// for most tasks.
	IntensityStandard Intensity = "standard"

	// IntensityDeep produces the largest candidate sets, at the cost of more
	// backend calls and a larger pre-selection candidate pool.
	IntensityDeep Intensity = "deep"
)

// Representation is how a candidate's content is rendered, in decreasing
// order of information content: Full, Snippet, Codemap, Reference.
type Representation string

const (
	// RepresentationFull is the verbatim file content.
	RepresentationFull Representation = "full"

	// RepresentationSnippet is an excerpted portion of the file (e.g. lines
	// around a keyword match).
	RepresentationSnippet Representation = "snippet"

	// RepresentationCodemap is a language-aware structural outline.
	RepresentationCodemap Representation = "codemap"

	// RepresentationReference is a bare path-and-reason placeholder with no
	// content payload. Every candidate's alternates ladder ends here.
	RepresentationReference Representation = "reference"
)

// StrategyCap is a per-strategy ceiling (item count and token total) a caller
// can attach to a request. Strategies can read it through Context.Cap, but
// neither the planner, the selector, nor any built-in strategy enforces it;
// only the built-in STRATEGY_BUDGET_CAPS fractional caps limit a strategy.
type StrategyCap struct {
	MaxItems  int
	MaxTokens int
}

// SliceRequest is the input contract for a single slicing run.
type SliceRequest struct {
	// Task is the natural-language description of what the caller is trying
	// to accomplish. Used for keyword extraction. Must be non-empty.
	Task string

	// RepoRoot is the absolute path to the repository under analysis.
	RepoRoot string

	// BudgetTokens is the hard ceiling on output tokens. Must be positive.
	BudgetTokens int

	// WarningThreshold is the totalTokens/BudgetTokens ratio at or above
	// which a near_budget warning is emitted. Defaults to 0.9 when zero.
	WarningThreshold float64

	// Intensity is the global default for per-strategy limits.
	Intensity Intensity

	// StrategyIntensity overrides Intensity for specific named strategies.
	StrategyIntensity map[string]Intensity

	// StrategyCaps are per-strategy caps, keyed by strategy name. They are
	// not enforced during planning or selection (see StrategyCap).
	StrategyCaps map[string]StrategyCap

	// Strategies is an explicit allow-list of strategy names. A nil or empty
	// slice means "run every available strategy".
	Strategies []string

	// IncludeTree requests a directory tree be prepended to the result.
	IncludeTree bool

	// Include is a list of glob patterns; a path must match at least one
	// (or the list must be empty) to be eligible for any strategy.
	Include []string

	// Exclude is a list of glob patterns; a path matching any of them is
	// never eligible for any strategy.
	Exclude []string

	// MaxResults caps the number of candidates the selector will emit.
	// Zero means unbounded (subject to budget).
	MaxResults int

	// ProjectName, when set, is passed to the forest strategy's
	// `--tag project:<name>` invocation. Detected from RepoRoot's base name
	// when empty.
	ProjectName string
}

// EffectiveWarningThreshold returns req.WarningThreshold, defaulting to 0.9.
func (req *SliceRequest) EffectiveWarningThreshold() float64 {
	if req.WarningThreshold <= 0 || req.WarningThreshold > 1 {
		return 0.9
	}
	return req.WarningThreshold
}

// IntensityFor resolves the effective Intensity for a named strategy,
// honoring StrategyIntensity overrides before falling back to req.Intensity
// and finally IntensityStandard.
func (req *SliceRequest) IntensityFor(strategyName string) Intensity {
	if req.StrategyIntensity != nil {
		if v, ok := req.StrategyIntensity[strategyName]; ok && v != "" {
			return v
		}
	}
	if req.Intensity != "" {
		return req.Intensity
	}
	return IntensityStandard
}

// AlternateForm is a single rung in a candidate's downgrade ladder: a
// representation, its pre-computed token cost, and its payload. Payload
// holds file content for Full/Snippet, a formatted outline for Codemap, and
// a "path (reason)" line for Reference.
type AlternateForm struct {
	Representation Representation
	Tokens         int
	Payload        string
}

// SliceCandidate is the unit of work produced by a strategy and consumed by
// the selector.
type SliceCandidate struct {
	// ID is "<strategy>:<path>", unique within a plan.
	ID string

	// Path is the repository-relative path.
	Path string

	// Strategy is the tag of the producing strategy.
	Strategy string

	// Representation is the currently chosen representation. It is always
	// either the value a strategy originally set, or one promoted from
	// Alternates by the selector.
	Representation Representation

	// Score is a finite, non-negative relevance score; higher is better.
	Score float64

	// Tokens is the estimated token cost of the CURRENT representation's
	// payload. It is kept in sync with Representation/Content/Codemap by
	// construction and by the selector's downgrade step.
	Tokens int

	// Reason is a short human-readable rationale ("3 keyword hits", "import
	// graph depth 1", ...).
	Reason string

	// Source is a provenance tag ("git diff", "codemap", "skeleton scan").
	Source string

	// Content holds the Full or Snippet payload. Exactly one of Content /
	// Codemap is non-empty, except for Reference which has neither.
	Content string

	// Codemap holds the formatted Codemap payload.
	Codemap string

	// Alternates is the ordered downgrade ladder, most-detailed first,
	// always ending in a Reference entry. Pre-computed at plan time.
	Alternates []AlternateForm
}

// PayloadSize returns the token cost the selector should attribute to
// selecting this candidate at its current representation.
func (c *SliceCandidate) PayloadSize() int {
	return c.Tokens
}

// Warning is a non-fatal condition surfaced on a SlicePlan or SliceResult.
type Warning struct {
	Kind    string
	Message string
}

// Sidecar is an auxiliary content block attached to a plan/result outside
// the candidate list but inside the budget (e.g. the forest strategy's
// external-knowledge payload).
type Sidecar struct {
	Name    string
	Payload string
	Tokens  int
}

// StrategyTotal holds per-strategy aggregate statistics accumulated by the
// planner.
type StrategyTotal struct {
	Tokens int
	Count  int
}

// SlicePlan is the planner's output before selection: every candidate
// produced by every strategy, plus accounting and diagnostics. A plan is
// constructed once per request, mutated only by strategies during their own
// execution phase, and frozen once handed to the selector.
type SlicePlan struct {
	// ID is a per-plan correlation id (a random UUID set by the planner);
	// the selector copies it into SliceResult.PlanID.
	ID string

	// CreatedAt records when planning began (for logs only, never used in
	// selection logic so it doesn't affect determinism).
	CreatedAt time.Time

	// Candidates holds every candidate keyed by its ID for O(1) dedup
	// lookups; CandidateOrder preserves strategy-execution emission order.
	Candidates     map[string]*SliceCandidate
	CandidateOrder []string

	// StrategyTotals maps strategy name to its aggregate totals.
	StrategyTotals map[string]StrategyTotal

	// Warnings accumulates every non-fatal condition encountered while
	// planning, in the order they occurred.
	Warnings []Warning

	// Sidecars holds auxiliary payloads in stable insertion order.
	Sidecars     map[string]Sidecar
	SidecarOrder []string

	// Tree is the optional rendered directory tree.
	Tree       string
	TreeTokens int

	// TotalTokens is the sum of every candidate's Tokens, every sidecar's
	// Tokens, and TreeTokens.
	TotalTokens int
}

// OrderedCandidates returns the plan's candidates in strategy-execution
// emission order.
func (p *SlicePlan) OrderedCandidates() []*SliceCandidate {
	out := make([]*SliceCandidate, 0, len(p.CandidateOrder))
	for _, id := range p.CandidateOrder {
		out = append(out, p.Candidates[id])
	}
	return out
}

// OrderedSidecars returns the plan's sidecars in insertion order.
func (p *SlicePlan) OrderedSidecars() []Sidecar {
	out := make([]Sidecar, 0, len(p.SidecarOrder))
	for _, name := range p.SidecarOrder {
		out = append(out, p.Sidecars[name])
	}
	return out
}

// SliceResult is the final output of a slicing run: the selected
// candidates, their combined token cost, and the rendered context string.
type SliceResult struct {
	PlanID string

	// Selected holds the candidates chosen by the selector, in selection
	// order (the order they were appended while walking the sorted plan).
	Selected []*SliceCandidate

	// Sidecars holds the sidecars that survived budget reservation, in
	// insertion order.
	Sidecars []Sidecar

	// Tree is the directory tree, if reserved successfully.
	Tree string

	// TotalTokens is the sum of tokens across Selected, Sidecars, and Tree.
	TotalTokens int

	// Budget is the original SliceRequest.BudgetTokens.
	Budget int

	// Warnings carries every warning accumulated during planning and
	// selection, in order.
	Warnings []Warning

	// Rendered is the packaged context string (set by the packager, empty
	// until Render has been called).
	Rendered string
}
