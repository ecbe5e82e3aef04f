package slicer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		InvalidRequest:     "invalid_request",
		BackendUnavailable: "backend_unavailable",
		StrategyFailure:    "strategy_failure",
		BudgetExceeded:     "budget_exceeded",
		UnknownFormat:      "unknown_format",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewWrappedError(BackendUnavailable, "listFiles failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "backend_unavailable")
	assert.Contains(t, err.Error(), "boom")
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("task must not be empty")
	assert.Equal(t, InvalidRequest, err.Kind)
	assert.Nil(t, err.Err)
}

func TestRequestValidate(t *testing.T) {
	base := SliceRequest{
		Task:         "fix the bug",
		RepoRoot:     "/repo",
		BudgetTokens: 1000,
	}
	require.NoError(t, base.Validate())

	empty := base
	empty.Task = "  "
	var slErr *Error
	require.ErrorAs(t, empty.Validate(), &slErr)
	assert.Equal(t, InvalidRequest, slErr.Kind)

	badBudget := base
	badBudget.BudgetTokens = 0
	require.Error(t, badBudget.Validate())

	relRoot := base
	relRoot.RepoRoot = "repo"
	require.Error(t, relRoot.Validate())

	badIntensity := base
	badIntensity.Intensity = "extreme"
	require.Error(t, badIntensity.Validate())
}

func TestIntensityFor(t *testing.T) {
	req := SliceRequest{
		Intensity:         IntensityLite,
		StrategyIntensity: map[string]Intensity{"graph": IntensityDeep},
	}
	assert.Equal(t, IntensityDeep, req.IntensityFor("graph"))
	assert.Equal(t, IntensityLite, req.IntensityFor("keyword"))

	var zero SliceRequest
	assert.Equal(t, IntensityStandard, zero.IntensityFor("keyword"))
}

func TestEffectiveWarningThreshold(t *testing.T) {
	var req SliceRequest
	assert.Equal(t, 0.9, req.EffectiveWarningThreshold())

	req.WarningThreshold = 0.75
	assert.Equal(t, 0.75, req.EffectiveWarningThreshold())

	req.WarningThreshold = 1.5
	assert.Equal(t, 0.9, req.EffectiveWarningThreshold())
}
