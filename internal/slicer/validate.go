package slicer

import (
	"path/filepath"
	"strings"
)

// Validate checks the invariants spec.md places on SliceRequest: non-empty
// task, positive budget, a repo root that at least looks like a path. It
// does not touch the filesystem; that is BackendUnavailable territory, not
// InvalidRequest.
func (req *SliceRequest) Validate() error {
	if strings.TrimSpace(req.Task) == "" {
		return NewInvalidRequest("task must not be empty")
	}
	if req.BudgetTokens <= 0 {
		return NewInvalidRequest("budget_tokens must be positive")
	}
	if strings.TrimSpace(req.RepoRoot) == "" {
		return NewInvalidRequest("repo_root must not be empty")
	}
	if !filepath.IsAbs(req.RepoRoot) {
		return NewInvalidRequest("repo_root must be an absolute path")
	}
	if req.MaxResults < 0 {
		return NewInvalidRequest("max_results must not be negative")
	}
	switch req.Intensity {
	case "", IntensityLite, IntensityStandard, IntensityDeep:
	default:
		return NewInvalidRequest("unknown intensity: " + string(req.Intensity))
	}
	for name, in := range req.StrategyIntensity {
		switch in {
		case IntensityLite, IntensityStandard, IntensityDeep:
		default:
			return NewInvalidRequest("unknown intensity for strategy " + name + ": " + string(in))
		}
	}
	return nil
}
