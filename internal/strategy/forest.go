package strategy

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/slicekit/slicekit/internal/scoring"
	"github.com/slicekit/slicekit/internal/slicer"
)

// forestTimeout bounds the forest subprocess call, per spec.md §5's
// subprocess discipline ("must carry a timeout").
const forestTimeout = 10 * time.Second

// forestMinSliceTokens is spec.md §4.D's "< 500 tokens, skip" floor on the
// per-strategy budget slice.
const forestMinSliceTokens = 500

// forestMinResultTokens is spec.md §4.D's "at least 100 tokens" floor for
// emitting the sidecar at all.
const forestMinResultTokens = 100

// Forest implements spec.md §4.D's optional forest sidecar strategy:
// availability requires the external `forest` executable on PATH.
type Forest struct{}

func (Forest) Name() string           { return "forest" }
func (Forest) DefaultWeight() float64 { return scoring.STRATEGY_WEIGHTS["forest"] }
func (Forest) DefaultBudgetCap() (float64, bool) {
	cap, ok := scoring.STRATEGY_BUDGET_CAPS["forest"]
	return cap, ok
}

func (Forest) IsAvailable(ctx context.Context, sctx *Context) bool {
	_, err := exec.LookPath("forest")
	return err == nil
}

func (f Forest) Execute(ctx context.Context, sctx *Context) (Output, error) {
	cap, _ := scoring.StrategyCap("forest", sctx.BudgetTokens)
	if cap < forestMinSliceTokens {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_skipped", Message: "forest: budget slice below minimum"},
		}}, nil
	}

	project := sctx.Request.ProjectName
	if project == "" {
		project = defaultProjectName(sctx.RepoRoot)
	}

	cctx, cancel := context.WithTimeout(ctx, forestTimeout)
	defer cancel()

	args := []string{
		"context",
		"--tag", "project:" + project,
		"--query", strings.Join(sctx.Keywords, ","),
		"--budget", strconv.Itoa(cap),
	}
	cmd := exec.CommandContext(cctx, "forest", args...)
	cmd.Dir = sctx.RepoRoot

	output, err := cmd.Output()
	if err != nil {
		return Output{Warnings: []slicer.Warning{
			{Kind: "strategy_failure", Message: "forest: " + err.Error()},
		}}, nil
	}

	payload := string(output)
	tokens := sctx.Estimator.Count(payload)
	if tokens < forestMinResultTokens {
		return Output{}, nil
	}

	return Output{Sidecar: &slicer.Sidecar{Name: "forest", Payload: payload, Tokens: tokens}}, nil
}

func defaultProjectName(repoRoot string) string {
	repoRoot = strings.TrimRight(repoRoot, "/")
	if idx := strings.LastIndexByte(repoRoot, '/'); idx >= 0 {
		return repoRoot[idx+1:]
	}
	return repoRoot
}
