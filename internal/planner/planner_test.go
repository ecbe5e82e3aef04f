package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/planner"
	"github.com/slicekit/slicekit/internal/slicer"
)

func TestPlanRejectsInvalidRequest(t *testing.T) {
	p := planner.New()
	_, err := p.Plan(context.Background(), &slicer.SliceRequest{}, backend.NewFake())
	require.Error(t, err)

	var sliceErr *slicer.Error
	require.ErrorAs(t, err, &sliceErr)
	assert.Equal(t, slicer.InvalidRequest, sliceErr.Kind)
}

func TestPlanRejectsNilBackend(t *testing.T) {
	p := planner.New()
	req := &slicer.SliceRequest{Task: "fix auth bug", RepoRoot: "/repo", BudgetTokens: 4000}
	_, err := p.Plan(context.Background(), req, nil)
	require.Error(t, err)

	var sliceErr *slicer.Error
	require.ErrorAs(t, err, &sliceErr)
	assert.Equal(t, slicer.BackendUnavailable, sliceErr.Kind)
}

func TestPlanAggregatesCandidatesAcrossStrategies(t *testing.T) {
	fake := backend.NewFake().
		WithFile("src/index.ts", "export function main() {}\n").
		WithFile("src/auth.ts", "function authenticate() {\n  return true\n}\n").
		WithFile("go.mod", "module example.com/x\n\ngo 1.24\n")

	req := &slicer.SliceRequest{
		Task:         "fix the authenticate bug",
		RepoRoot:     "/repo",
		BudgetTokens: 8000,
	}

	plan, err := planner.New().Plan(context.Background(), req, fake)
	require.NoError(t, err)
	require.NotEmpty(t, plan.ID)
	assert.NotEmpty(t, plan.Candidates)
	assert.NotEmpty(t, plan.CandidateOrder)

	// No duplicate IDs across strategies.
	seen := make(map[string]bool)
	for _, id := range plan.CandidateOrder {
		require.False(t, seen[id], "duplicate candidate id %s", id)
		seen[id] = true
	}

	assert.Greater(t, plan.TotalTokens, 0)
}

func TestPlanHonorsStrategyAllowlist(t *testing.T) {
	fake := backend.NewFake().WithFile("go.mod", "module example.com/x\n\ngo 1.24\n")

	req := &slicer.SliceRequest{
		Task:         "inspect build config",
		RepoRoot:     "/repo",
		BudgetTokens: 4000,
		Strategies:   []string{"config"},
	}

	plan, err := planner.New().Plan(context.Background(), req, fake)
	require.NoError(t, err)
	for _, c := range plan.Candidates {
		assert.Equal(t, "config", c.Strategy)
	}
	_, hasConfigTotal := plan.StrategyTotals["config"]
	assert.True(t, hasConfigTotal)
	_, hasSkeletonTotal := plan.StrategyTotals["skeleton"]
	assert.False(t, hasSkeletonTotal)
}

func TestPlanIncludesTreeWhenRequested(t *testing.T) {
	fake := backend.NewFake().WithFile("go.mod", "module example.com/x\n\ngo 1.24\n")
	fake.Tree = "go.mod\n"

	req := &slicer.SliceRequest{
		Task:         "inspect build config",
		RepoRoot:     "/repo",
		BudgetTokens: 4000,
		IncludeTree:  true,
	}

	plan, err := planner.New().Plan(context.Background(), req, fake)
	require.NoError(t, err)
	assert.Equal(t, "go.mod\n", plan.Tree)
	assert.Greater(t, plan.TreeTokens, 0)
}

func TestPlanDoesNotWarnOnMissingForest(t *testing.T) {
	fake := backend.NewFake().WithFile("go.mod", "module example.com/x\n\ngo 1.24\n")
	req := &slicer.SliceRequest{Task: "inspect build config", RepoRoot: "/repo", BudgetTokens: 4000}

	plan, err := planner.New().Plan(context.Background(), req, fake)
	require.NoError(t, err)
	for _, w := range plan.Warnings {
		assert.NotContains(t, w.Message, "forest: unavailable")
	}
}
